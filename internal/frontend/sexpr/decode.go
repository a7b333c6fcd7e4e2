package sexpr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/source"
	"github.com/thrushlang/thrushc-sub007/internal/utils/numeric"
)

var ErrMalformed = errors.New("malformed AST")

var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"&&": true, "||": true,
	"&": true, "|": true, "^": true, "<<": true, ">>": true,
}

var staticFlags = map[string]bool{"mut": true, "volatile": true, "threadlocal": true, "atomic": true}

// Decode parses input and builds the module for file.
func Decode(file, input string) (*ast.Module, error) {
	nodes, err := Parse(input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	d := &decoder{file: file}
	mod := &ast.Module{FilePath: file}
	for _, n := range nodes {
		item, err := d.topLevel(n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		mod.Nodes = append(mod.Nodes, item)
	}
	if len(nodes) > 0 {
		mod.Location = *d.span(nodes[0].Start, nodes[len(nodes)-1].End)
	}
	return mod, nil
}

type decoder struct {
	file string
}

func (d *decoder) span(start, end source.Position) *source.Location {
	return source.NewLocation(&d.file, start.Clone(), end.Clone())
}

func (d *decoder) loc(n *Node) source.Location {
	return *d.span(n.Start, n.End)
}

func (d *decoder) fail(n *Node, format string, args ...any) error {
	return fmt.Errorf("%d:%d: %w: %s", n.Start.Line, n.Start.Column, ErrMalformed, fmt.Sprintf(format, args...))
}

func (d *decoder) topLevel(n *Node) (ast.Node, error) {
	switch n.Head() {
	case "fn":
		return d.funcDecl(n)
	case "asm":
		return d.asmDecl(n)
	case "entry":
		return d.entryDecl(n)
	case "struct":
		return d.structDecl(n)
	case "enum":
		return d.enumDecl(n)
	case "const":
		return d.constDecl(n)
	case "static":
		return d.staticDecl(n)
	case "type":
		return d.aliasDecl(n)
	}
	return d.stmt(n)
}

// attributes consumes leading @name and (@name "payload") items.
func (d *decoder) attributes(items []*Node) ([]ast.Attribute, []*Node, error) {
	var attrs []ast.Attribute
	for len(items) > 0 {
		it := items[0]
		switch {
		case it.Type == NodeSymbol && strings.HasPrefix(it.Text, "@"):
			attrs = append(attrs, ast.Attribute{Name: it.Text[1:], Location: d.loc(it)})
		case strings.HasPrefix(it.Head(), "@"):
			attr := ast.Attribute{Name: it.Head()[1:], Location: d.loc(it)}
			if len(it.Items) > 2 {
				return nil, nil, d.fail(it, "attribute takes at most one value")
			}
			if len(it.Items) == 2 {
				lit, err := d.literal(it.Items[1])
				if err != nil {
					return nil, nil, err
				}
				attr.Payload = lit
			}
			attrs = append(attrs, attr)
		default:
			return attrs, items, nil
		}
		items = items[1:]
	}
	return attrs, items, nil
}

// name consumes a declaration name. `_` or a missing symbol leaves it nil.
func (d *decoder) name(items []*Node) (*ast.IdentifierExpr, []*Node) {
	if len(items) == 0 || items[0].Type != NodeSymbol {
		return nil, items
	}
	if items[0].Text == "_" {
		return nil, items[1:]
	}
	return d.ident(items[0]), items[1:]
}

func (d *decoder) ident(n *Node) *ast.IdentifierExpr {
	return &ast.IdentifierExpr{Name: n.Text, Location: d.loc(n)}
}

func (d *decoder) params(n *Node) ([]*ast.Param, error) {
	if n.Type != NodeList {
		return nil, d.fail(n, "expected parameter list, got %s", n)
	}
	params := make([]*ast.Param, 0, len(n.Items))
	for _, p := range n.Items {
		items := p.Items
		param := &ast.Param{Location: d.loc(p)}
		if len(items) == 3 && items[0].IsSymbol("mut") {
			param.Mutable = true
			items = items[1:]
		}
		if p.Type != NodeList || len(items) != 2 || items[0].Type != NodeSymbol {
			return nil, d.fail(p, "expected (name type) parameter, got %s", p)
		}
		typ, err := d.typeNode(items[1])
		if err != nil {
			return nil, err
		}
		param.Name = d.ident(items[0])
		param.Type = typ
		params = append(params, param)
	}
	return params, nil
}

// signature reads `name (params) ret` after the attributes.
func (d *decoder) signature(items []*Node) (*ast.IdentifierExpr, []*ast.Param, ast.TypeNode, []*Node, error) {
	name, items := d.name(items)
	if len(items) < 2 {
		return name, nil, nil, nil, nil
	}
	params, err := d.params(items[0])
	if err != nil {
		return nil, nil, nil, nil, err
	}
	ret, err := d.typeNode(items[1])
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return name, params, ret, items[2:], nil
}

func (d *decoder) funcDecl(n *Node) (ast.Node, error) {
	attrs, items, err := d.attributes(n.Items[1:])
	if err != nil {
		return nil, err
	}
	name, params, ret, rest, err := d.signature(items)
	if err != nil {
		return nil, err
	}
	fn := &ast.FuncDecl{Name: name, Params: params, Return: ret, Attributes: attrs, Location: d.loc(n)}
	switch len(rest) {
	case 0:
	case 1:
		if fn.Body, err = d.block(rest[0]); err != nil {
			return nil, err
		}
	default:
		return nil, d.fail(n, "function takes a single (block ...) body")
	}
	return fn, nil
}

func (d *decoder) asmDecl(n *Node) (ast.Node, error) {
	attrs, items, err := d.attributes(n.Items[1:])
	if err != nil {
		return nil, err
	}
	name, params, ret, rest, err := d.signature(items)
	if err != nil {
		return nil, err
	}
	fn := &ast.AsmFuncDecl{Name: name, Params: params, Return: ret, Attributes: attrs, Location: d.loc(n)}
	if len(rest) > 0 && rest[0].Type == NodeString {
		fn.Assembly = rest[0].Text
	}
	if len(rest) > 1 && rest[1].Type == NodeString {
		fn.Constraints = rest[1].Text
	}
	return fn, nil
}

func (d *decoder) entryDecl(n *Node) (ast.Node, error) {
	attrs, items, err := d.attributes(n.Items[1:])
	if err != nil {
		return nil, err
	}
	entry := &ast.EntrypointDecl{Attributes: attrs, Location: d.loc(n)}
	if len(items) != 1 {
		return nil, d.fail(n, "entry takes a single (block ...) body")
	}
	if entry.Body, err = d.block(items[0]); err != nil {
		return nil, err
	}
	return entry, nil
}

func (d *decoder) structDecl(n *Node) (*ast.StructDecl, error) {
	attrs, items, err := d.attributes(n.Items[1:])
	if err != nil {
		return nil, err
	}
	name, items := d.name(items)
	decl := &ast.StructDecl{Name: name, Attributes: attrs, Location: d.loc(n)}
	for _, f := range items {
		if f.Type != NodeList || len(f.Items) != 2 || f.Items[0].Type != NodeSymbol {
			return nil, d.fail(f, "expected (field type), got %s", f)
		}
		typ, err := d.typeNode(f.Items[1])
		if err != nil {
			return nil, err
		}
		decl.Fields = append(decl.Fields, &ast.FieldDecl{Name: d.ident(f.Items[0]), Type: typ, Location: d.loc(f)})
	}
	return decl, nil
}

func (d *decoder) enumDecl(n *Node) (ast.Node, error) {
	attrs, items, err := d.attributes(n.Items[1:])
	if err != nil {
		return nil, err
	}
	name, items := d.name(items)
	decl := &ast.EnumDecl{Name: name, Attributes: attrs, Location: d.loc(n)}
	if len(items) > 0 && items[0].Type == NodeSymbol {
		decl.Base = &ast.NamedType{Name: items[0].Text, Location: d.loc(items[0])}
		items = items[1:]
	}
	for _, v := range items {
		if v.Type != NodeList || len(v.Items) == 0 || len(v.Items) > 2 || v.Items[0].Type != NodeSymbol {
			return nil, d.fail(v, "expected (variant [value]), got %s", v)
		}
		variant := &ast.EnumVariant{Name: d.ident(v.Items[0]), Location: d.loc(v)}
		if len(v.Items) == 2 {
			if variant.Value, err = d.expr(v.Items[1]); err != nil {
				return nil, err
			}
		}
		decl.Variants = append(decl.Variants, variant)
	}
	return decl, nil
}

// optionalType reads a type where `_` means "inferred".
func (d *decoder) optionalType(n *Node) (ast.TypeNode, error) {
	if n.IsSymbol("_") {
		return nil, nil
	}
	return d.typeNode(n)
}

func (d *decoder) constDecl(n *Node) (*ast.ConstDecl, error) {
	attrs, items, err := d.attributes(n.Items[1:])
	if err != nil {
		return nil, err
	}
	name, items := d.name(items)
	decl := &ast.ConstDecl{Name: name, Attributes: attrs, Location: d.loc(n)}
	if len(items) > 0 {
		if decl.Type, err = d.optionalType(items[0]); err != nil {
			return nil, err
		}
	}
	if len(items) > 1 {
		if decl.Value, err = d.expr(items[1]); err != nil {
			return nil, err
		}
	}
	return decl, nil
}

func (d *decoder) staticDecl(n *Node) (ast.Node, error) {
	attrs, items, err := d.attributes(n.Items[1:])
	if err != nil {
		return nil, err
	}
	decl := &ast.StaticDecl{Attributes: attrs, Location: d.loc(n)}
	for len(items) > 0 && items[0].Type == NodeSymbol && staticFlags[items[0].Text] {
		switch items[0].Text {
		case "mut":
			decl.Mutable = true
		case "volatile":
			decl.Volatile = true
		case "threadlocal":
			decl.ThreadLocal = true
		case "atomic":
			decl.Atomic = true
		}
		items = items[1:]
	}
	decl.Name, items = d.name(items)
	if len(items) > 0 {
		if decl.Type, err = d.optionalType(items[0]); err != nil {
			return nil, err
		}
	}
	if len(items) > 1 {
		if decl.Value, err = d.expr(items[1]); err != nil {
			return nil, err
		}
	}
	return decl, nil
}

func (d *decoder) aliasDecl(n *Node) (ast.Node, error) {
	attrs, items, err := d.attributes(n.Items[1:])
	if err != nil {
		return nil, err
	}
	name, items := d.name(items)
	decl := &ast.TypeAliasDecl{Name: name, Attributes: attrs, Location: d.loc(n)}
	if len(items) == 1 {
		if decl.Type, err = d.typeNode(items[0]); err != nil {
			return nil, err
		}
	}
	return decl, nil
}

func (d *decoder) typeNode(n *Node) (ast.TypeNode, error) {
	loc := d.loc(n)
	if n.Type == NodeSymbol {
		switch n.Text {
		case "ptr":
			return &ast.PtrType{Location: loc}, nil
		case "addr":
			return &ast.AddrType{Location: loc}, nil
		}
		return &ast.NamedType{Name: n.Text, Location: loc}, nil
	}
	if n.Type != NodeList {
		return nil, d.fail(n, "expected type, got %s", n)
	}

	args := n.Items[1:]
	switch n.Head() {
	case "ptr", "array", "const", "mut":
		if len(args) == 0 {
			return nil, d.fail(n, "%s needs an element type", n.Head())
		}
		elem, err := d.typeNode(args[0])
		if err != nil {
			return nil, err
		}
		switch n.Head() {
		case "ptr":
			return &ast.PtrType{Elem: elem, Location: loc}, nil
		case "const":
			return &ast.ConstType{Inner: elem, Location: loc}, nil
		case "mut":
			return &ast.MutType{Inner: elem, Location: loc}, nil
		}
		if len(args) == 2 {
			size, err := strconv.Atoi(args[1].Text)
			if err != nil || args[1].Type != NodeNumber || size < 0 {
				return nil, d.fail(args[1], "array length must be a non-negative integer")
			}
			return &ast.FixedArrayType{Elem: elem, Length: size, Location: loc}, nil
		}
		return &ast.ArrayType{Elem: elem, Location: loc}, nil
	case "fn":
		if len(args) != 2 || args[0].Type != NodeList {
			return nil, d.fail(n, "expected (fn (params...) ret)")
		}
		fn := &ast.FnType{Location: loc}
		for _, p := range args[0].Items {
			if p.IsSymbol("...") {
				fn.Variadic = true
				continue
			}
			pt, err := d.typeNode(p)
			if err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, pt)
		}
		ret, err := d.typeNode(args[1])
		if err != nil {
			return nil, err
		}
		fn.Return = ret
		return fn, nil
	}
	return nil, d.fail(n, "unknown type form %s", n)
}

func (d *decoder) block(n *Node) (*ast.Block, error) {
	if n.Head() != "block" {
		return nil, d.fail(n, "expected (block ...), got %s", n)
	}
	b := &ast.Block{Location: d.loc(n)}
	for _, item := range n.Items[1:] {
		s, err := d.stmt(item)
		if err != nil {
			return nil, err
		}
		b.Nodes = append(b.Nodes, s)
	}
	return b, nil
}

func (d *decoder) stmt(n *Node) (ast.Node, error) {
	loc := d.loc(n)
	args := []*Node{}
	if n.Type == NodeList && len(n.Items) > 0 {
		args = n.Items[1:]
	}

	switch n.Head() {
	case "block":
		return d.block(n)
	case "struct":
		return d.structDecl(n)
	case "const":
		return d.constDecl(n)
	case "bad":
		return &ast.BadStmt{Location: loc}, nil
	case "let":
		decl := &ast.LocalDecl{Location: loc}
		if len(args) > 0 && args[0].IsSymbol("mut") {
			decl.Mutable = true
			args = args[1:]
		}
		return decl, d.binding(n, args, &decl.Name, &decl.Type, &decl.Value)
	case "instr":
		decl := &ast.InstrDecl{Location: loc}
		return decl, d.binding(n, args, &decl.Name, &decl.Type, &decl.Value)
	case "set":
		if len(args) != 2 {
			return nil, d.fail(n, "set takes a target and a value")
		}
		lhs, err := d.expr(args[0])
		if err != nil {
			return nil, err
		}
		rhs, err := d.expr(args[1])
		if err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Lhs: lhs, Rhs: rhs, Location: loc}, nil
	case "return":
		ret := &ast.ReturnStmt{Location: loc}
		if len(args) == 1 {
			var err error
			if ret.Result, err = d.expr(args[0]); err != nil {
				return nil, err
			}
		}
		return ret, nil
	case "break":
		return &ast.BreakStmt{Location: loc}, nil
	case "continue":
		return &ast.ContinueStmt{Location: loc}, nil
	case "if":
		return d.ifStmt(n)
	case "while":
		if len(args) != 2 {
			return nil, d.fail(n, "expected (while cond (block ...))")
		}
		cond, err := d.expr(args[0])
		if err != nil {
			return nil, err
		}
		body, err := d.block(args[1])
		if err != nil {
			return nil, err
		}
		return &ast.WhileStmt{Cond: cond, Body: body, Location: loc}, nil
	case "loop":
		if len(args) != 1 {
			return nil, d.fail(n, "expected (loop (block ...))")
		}
		body, err := d.block(args[0])
		if err != nil {
			return nil, err
		}
		return &ast.LoopStmt{Body: body, Location: loc}, nil
	case "for":
		return d.forStmt(n)
	case "write":
		if len(args) != 2 {
			return nil, d.fail(n, "expected (write target value)")
		}
		target, err := d.expr(args[0])
		if err != nil {
			return nil, err
		}
		value, err := d.expr(args[1])
		if err != nil {
			return nil, err
		}
		return &ast.WriteStmt{Target: target, Value: value, Location: loc}, nil
	}

	x, err := d.expr(n)
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{X: x, Location: loc}, nil
}

// binding reads `name type [value]` shared by let and instr.
func (d *decoder) binding(n *Node, args []*Node, name **ast.IdentifierExpr, typ *ast.TypeNode, value *ast.Expression) error {
	if len(args) < 2 || args[0].Type != NodeSymbol {
		return d.fail(n, "expected name and type")
	}
	*name = d.ident(args[0])
	t, err := d.optionalType(args[1])
	if err != nil {
		return err
	}
	*typ = t
	if len(args) > 2 {
		v, err := d.expr(args[2])
		if err != nil {
			return err
		}
		*value = v
	}
	return nil
}

func (d *decoder) ifStmt(n *Node) (*ast.IfStmt, error) {
	args := n.Items[1:]
	if len(args) < 2 || len(args) > 3 {
		return nil, d.fail(n, "expected (if cond (block ...) [else])")
	}
	cond, err := d.expr(args[0])
	if err != nil {
		return nil, err
	}
	body, err := d.block(args[1])
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Cond: cond, Body: body, Location: d.loc(n)}
	if len(args) == 3 {
		switch args[2].Head() {
		case "if":
			stmt.Else, err = d.ifStmt(args[2])
		case "block":
			stmt.Else, err = d.block(args[2])
		default:
			err = d.fail(args[2], "else must be (if ...) or (block ...)")
		}
		if err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (d *decoder) forStmt(n *Node) (ast.Node, error) {
	args := n.Items[1:]
	if len(args) != 4 {
		return nil, d.fail(n, "expected (for init cond post (block ...))")
	}
	stmt := &ast.ForStmt{Location: d.loc(n)}
	if !args[0].IsSymbol("_") {
		init, err := d.stmt(args[0])
		if err != nil {
			return nil, err
		}
		s, ok := init.(ast.Statement)
		if !ok {
			return nil, d.fail(args[0], "for init must be a statement")
		}
		stmt.Init = s
	}
	if !args[1].IsSymbol("_") {
		cond, err := d.expr(args[1])
		if err != nil {
			return nil, err
		}
		stmt.Cond = cond
	}
	if !args[2].IsSymbol("_") {
		post, err := d.stmt(args[2])
		if err != nil {
			return nil, err
		}
		s, ok := post.(ast.Statement)
		if !ok {
			return nil, d.fail(args[2], "for post must be a statement")
		}
		stmt.Post = s
	}
	body, err := d.block(args[3])
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

func (d *decoder) literal(n *Node) (*ast.BasicLit, error) {
	loc := d.loc(n)
	switch n.Type {
	case NodeNumber:
		if numeric.IsFloat(n.Text) {
			return &ast.BasicLit{Kind: ast.FLOAT, Value: n.Text, Location: loc}, nil
		}
		if !numeric.IsInteger(n.Text) {
			return nil, d.fail(n, "invalid number %s", n.Text)
		}
		return &ast.BasicLit{Kind: ast.INT, Value: n.Text, Location: loc}, nil
	case NodeString:
		return &ast.BasicLit{Kind: ast.STRING, Value: n.Text, Location: loc}, nil
	case NodeSymbol:
		switch n.Text {
		case "true", "false":
			return &ast.BasicLit{Kind: ast.BOOL, Value: n.Text, Location: loc}, nil
		case "null":
			return &ast.BasicLit{Kind: ast.NULL, Value: n.Text, Location: loc}, nil
		}
	case NodeList:
		if n.Head() == "char" && len(n.Items) == 2 && n.Items[1].Type == NodeString && len([]rune(n.Items[1].Text)) == 1 {
			return &ast.BasicLit{Kind: ast.CHAR, Value: n.Items[1].Text, Location: loc}, nil
		}
	}
	return nil, d.fail(n, "expected literal, got %s", n)
}

func (d *decoder) exprs(nodes []*Node) ([]ast.Expression, error) {
	out := make([]ast.Expression, 0, len(nodes))
	for _, n := range nodes {
		e, err := d.expr(n)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (d *decoder) expr(n *Node) (ast.Expression, error) {
	loc := d.loc(n)
	switch n.Type {
	case NodeNumber, NodeString:
		return d.literal(n)
	case NodeSymbol:
		if n.Text == "true" || n.Text == "false" || n.Text == "null" {
			return d.literal(n)
		}
		return d.ident(n), nil
	}

	if len(n.Items) == 0 {
		return nil, d.fail(n, "empty expression")
	}
	head := n.Head()
	args := n.Items[1:]

	switch {
	case head == "char":
		return d.literal(n)
	case head == "bad":
		return &ast.BadExpr{Location: loc}, nil
	case (head == "-" || head == "!" || head == "~") && len(args) == 1:
		x, err := d.expr(args[0])
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: head, X: x, Location: loc}, nil
	case binaryOps[head]:
		if len(args) != 2 {
			return nil, d.fail(n, "%s takes two operands", head)
		}
		x, err := d.expr(args[0])
		if err != nil {
			return nil, err
		}
		y, err := d.expr(args[1])
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{X: x, Op: head, Y: y, Location: loc}, nil
	case head == "call":
		if len(args) == 0 || args[0].Type != NodeSymbol {
			return nil, d.fail(n, "call needs a callee name")
		}
		callArgs, err := d.exprs(args[1:])
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Callee: d.ident(args[0]), Args: callArgs, Location: loc}, nil
	case head == "icall":
		if len(args) == 0 {
			return nil, d.fail(n, "icall needs a callee")
		}
		all, err := d.exprs(args)
		if err != nil {
			return nil, err
		}
		return &ast.IndirectCallExpr{Fn: all[0], Args: all[1:], Location: loc}, nil
	case head == ".":
		if len(args) < 2 {
			return nil, d.fail(n, "field access needs a value and a path")
		}
		x, err := d.expr(args[0])
		if err != nil {
			return nil, err
		}
		path := make([]string, 0, len(args)-1)
		for _, seg := range args[1:] {
			if seg.Type != NodeSymbol && seg.Type != NodeNumber {
				return nil, d.fail(seg, "field path segment must be a name or an index")
			}
			path = append(path, seg.Text)
		}
		return &ast.FieldAccessExpr{X: x, Path: path, Location: loc}, nil
	case head == "index":
		if len(args) != 2 {
			return nil, d.fail(n, "index takes a value and an index")
		}
		all, err := d.exprs(args)
		if err != nil {
			return nil, err
		}
		return &ast.IndexExpr{X: all[0], Index: all[1], Location: loc}, nil
	case head == "cast":
		if len(args) != 2 {
			return nil, d.fail(n, "expected (cast type value)")
		}
		typ, err := d.typeNode(args[0])
		if err != nil {
			return nil, err
		}
		x, err := d.expr(args[1])
		if err != nil {
			return nil, err
		}
		return &ast.CastExpr{X: x, Type: typ, Location: loc}, nil
	case head == "arr":
		elems, err := d.exprs(args)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayLit{Elems: elems, Location: loc}, nil
	case head == "arr-of":
		if len(args) == 0 {
			return nil, d.fail(n, "arr-of needs an element type")
		}
		typ, err := d.typeNode(args[0])
		if err != nil {
			return nil, err
		}
		elems, err := d.exprs(args[1:])
		if err != nil {
			return nil, err
		}
		return &ast.ArrayLit{ElemType: typ, Elems: elems, Location: loc}, nil
	case head == "address":
		if len(args) != 1 {
			return nil, d.fail(n, "address takes one operand")
		}
		x, err := d.expr(args[0])
		if err != nil {
			return nil, err
		}
		return &ast.AddressOfExpr{X: x, Location: loc}, nil
	case head == "load":
		if len(args) != 2 {
			return nil, d.fail(n, "expected (load type value)")
		}
		typ, err := d.typeNode(args[0])
		if err != nil {
			return nil, err
		}
		x, err := d.expr(args[1])
		if err != nil {
			return nil, err
		}
		return &ast.LoadExpr{Type: typ, X: x, Location: loc}, nil
	case head == "alloc":
		if len(args) != 1 {
			return nil, d.fail(n, "expected (alloc type)")
		}
		typ, err := d.typeNode(args[0])
		if err != nil {
			return nil, err
		}
		return &ast.AllocExpr{Type: typ, Location: loc}, nil
	}
	return nil, d.fail(n, "unknown expression form %s", n)
}
