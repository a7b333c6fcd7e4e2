// Package attrcheck validates the compiler attributes attached to
// declarations against a fixed table of what each attribute may decorate.
package attrcheck

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/thrushlang/thrushc-sub007/internal/compctx"
	"github.com/thrushlang/thrushc-sub007/internal/diagnostics"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/phase"
)

// CheckModule checks every declaration of the unit, including the structs
// and constants declared inside bodies.
func CheckModule(u *compctx.Unit) {
	if !u.Require(phase.PassAttributes) {
		return
	}
	if u.Module != nil {
		for _, node := range u.Module.Nodes {
			checkNode(u, node)
		}
	}
	u.Complete(phase.PassAttributes)
}

func checkNode(u *compctx.Unit, node ast.Node) {
	switch n := node.(type) {
	case *ast.FuncDecl:
		checkDecl(u, n)
		checkBody(u, n.Body)
	case *ast.EntrypointDecl:
		checkDecl(u, n)
		checkBody(u, n.Body)
	case ast.Decl:
		checkDecl(u, n)
	case *ast.Block:
		checkBody(u, n)
	case *ast.IfStmt:
		checkBody(u, n.Body)
		if n.Else != nil {
			checkNode(u, n.Else)
		}
	case *ast.WhileStmt:
		checkBody(u, n.Body)
	case *ast.LoopStmt:
		checkBody(u, n.Body)
	case *ast.ForStmt:
		checkBody(u, n.Body)
	}
}

func checkBody(u *compctx.Unit, b *ast.Block) {
	if b == nil {
		return
	}
	for _, node := range b.Nodes {
		checkNode(u, node)
	}
}

func checkDecl(u *compctx.Unit, d ast.Decl) {
	attrs := d.Attrs()
	kind := kindOf(d)
	seen := make(map[string]*ast.Attribute, len(attrs))

	for i := range attrs {
		attr := &attrs[i]
		spec, ok := attributes[attr.Name]
		if !ok {
			reportUnknown(u, attr)
			continue
		}
		if prev, dup := seen[attr.Name]; dup {
			u.Report(diagnostics.NewError(fmt.Sprintf("duplicate attribute '@%s'", attr.Name)).
				WithCode(diagnostics.ErrDuplicateAttribute).
				WithPrimaryLabel(&attr.Location, "repeated here").
				WithSecondaryLabel(&prev.Location, "first given here"))
			continue
		}
		seen[attr.Name] = attr

		if spec.on&kind == 0 {
			u.Report(diagnostics.NewError(fmt.Sprintf("attribute '@%s' cannot be applied to a %s", attr.Name, ast.DeclKind(d))).
				WithCode(diagnostics.ErrAttributeMisuse).
				WithPrimaryLabel(&attr.Location, fmt.Sprintf("not allowed on a %s", ast.DeclKind(d))).
				WithHelp(fmt.Sprintf("'@%s' is valid on: %s", attr.Name, spec.on)))
			continue
		}
		checkPayload(u, attr, spec)
	}

	checkConflicts(u, seen)
	checkExtern(u, d, seen)
}

func reportUnknown(u *compctx.Unit, attr *ast.Attribute) {
	d := diagnostics.NewError(fmt.Sprintf("unknown attribute '@%s'", attr.Name)).
		WithCode(diagnostics.ErrUnknownAttribute).
		WithPrimaryLabel(&attr.Location, "not a compiler attribute")
	if near := closestAttribute(attr.Name); near != "" {
		d.WithHelp(fmt.Sprintf("did you mean '@%s'?", near))
	}
	u.Report(d)
}

// closestAttribute finds a known attribute that differs from name only in
// case, or the first one in alphabetical order that name is a prefix of.
func closestAttribute(name string) string {
	lower := strings.ToLower(name)
	if _, ok := attributes[lower]; ok {
		return lower
	}
	for _, known := range slices.Sorted(maps.Keys(attributes)) {
		if len(lower) >= 3 && strings.HasPrefix(known, lower) {
			return known
		}
	}
	return ""
}

func checkPayload(u *compctx.Unit, attr *ast.Attribute, spec attrSpec) {
	switch {
	case !spec.takesValue() && attr.Payload != nil:
		u.Report(diagnostics.NewError(fmt.Sprintf("attribute '@%s' does not take a value", attr.Name)).
			WithCode(diagnostics.ErrInvalidAttributeValue).
			WithPrimaryLabel(attr.Payload.Loc(), "unexpected value").
			WithHelp(fmt.Sprintf("write it as '@%s'", attr.Name)))

	case spec.takesValue() && attr.Payload == nil:
		u.Report(diagnostics.NewError(fmt.Sprintf("attribute '@%s' needs a value", attr.Name)).
			WithCode(diagnostics.ErrMissingAttributeValue).
			WithPrimaryLabel(&attr.Location, "missing value").
			WithHelp(fmt.Sprintf("expected one of: %s", quoteAll(spec.values))))

	case spec.takesValue() && (attr.Payload.Kind != ast.STRING || !spec.accepts(attr.Payload.Value)):
		u.Report(diagnostics.NewError(fmt.Sprintf("invalid value %q for attribute '@%s'", attr.Payload.Value, attr.Name)).
			WithCode(diagnostics.ErrInvalidAttributeValue).
			WithPrimaryLabel(attr.Payload.Loc(), "not recognized").
			WithHelp(fmt.Sprintf("expected one of: %s", quoteAll(spec.values))))
	}
}

func checkConflicts(u *compctx.Unit, seen map[string]*ast.Attribute) {
	for _, pair := range conflicts {
		a, okA := seen[pair[0]]
		b, okB := seen[pair[1]]
		if !okA || !okB {
			continue
		}
		first, second := a, b
		if b.Location.Start != nil && a.Location.Start != nil && b.Location.Start.Before(a.Location.Start) {
			first, second = b, a
		}
		u.Report(diagnostics.NewError(fmt.Sprintf("attributes '@%s' and '@%s' conflict", first.Name, second.Name)).
			WithCode(diagnostics.ErrConflictingAttributes).
			WithPrimaryLabel(&second.Location, "conflicts with an earlier attribute").
			WithSecondaryLabel(&first.Location, "first given here").
			WithHelp("keep only one of them"))
	}
}

// checkExtern matches the presence of a function body with @extern
func checkExtern(u *compctx.Unit, d ast.Decl, seen map[string]*ast.Attribute) {
	fn, ok := d.(*ast.FuncDecl)
	if !ok {
		return
	}
	ext, isExtern := seen["extern"]
	switch {
	case isExtern && fn.Body != nil:
		u.Report(diagnostics.NewError(fmt.Sprintf("external function '%s' cannot have a body", declName(fn))).
			WithCode(diagnostics.ErrExternWithBody).
			WithPrimaryLabel(fn.Body.Loc(), "body given here").
			WithSecondaryLabel(&ext.Location, "declared external here").
			WithHelp("remove the body or the '@extern' attribute"))
	case !isExtern && fn.Body == nil:
		u.Report(diagnostics.NewError(fmt.Sprintf("function '%s' has no body", declName(fn))).
			WithCode(diagnostics.ErrMissingBody).
			WithPrimaryLabel(fn.Loc(), "missing body").
			WithHelp("add a body, or mark the function '@extern'"))
	}
}

func declName(d ast.Decl) string {
	if id := d.DeclName(); id != nil {
		return id.Name
	}
	return "_"
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, ", ")
}
