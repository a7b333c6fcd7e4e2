package typechecker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thrushlang/thrushc-sub007/internal/diagnostics"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/symbols"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/table"
	"github.com/thrushlang/thrushc-sub007/internal/source"
	"github.com/thrushlang/thrushc-sub007/internal/types"
	"github.com/thrushlang/thrushc-sub007/internal/utils/numeric"
)

// checkExpr computes the type of expr with expected as the type the context
// wants (nil when it has no preference), records it and returns it.
// A nil expression yields nil.
func checkExpr(c *checker, expr ast.Expression, expected types.SemType) types.SemType {
	if expr == nil {
		return nil
	}
	t := exprType(c, expr, expected)
	if t == nil {
		t = types.TypeUnknown
	}
	c.unit.Facts.SetType(expr, t)
	return t
}

func exprType(c *checker, expr ast.Expression, expected types.SemType) types.SemType {
	switch e := expr.(type) {
	case *ast.BasicLit:
		return checkLiteral(c, e, expected, false)
	case *ast.IdentifierExpr:
		return checkIdentifier(c, e)
	case *ast.BinaryExpr:
		return checkBinaryExpr(c, e, expected)
	case *ast.UnaryExpr:
		return checkUnaryExpr(c, e, expected)
	case *ast.CallExpr:
		return checkCallExpr(c, e)
	case *ast.IndirectCallExpr:
		return checkIndirectCallExpr(c, e)
	case *ast.FieldAccessExpr:
		return checkFieldAccess(c, e)
	case *ast.IndexExpr:
		return checkIndexExpr(c, e)
	case *ast.CastExpr:
		return checkCastExpr(c, e)
	case *ast.ArrayLit:
		return checkArrayLit(c, e, expected)
	case *ast.AddressOfExpr:
		return checkAddressOf(c, e)
	case *ast.LoadExpr:
		return checkLoad(c, e)
	case *ast.AllocExpr:
		return types.NewPointer(resolveType(c, e.Type))
	case *ast.BadExpr:
		return types.TypeUnknown
	default:
		c.unit.Report(diagnostics.NewBug(fmt.Sprintf("type checker reached expression %T", expr)).
			WithPrimaryLabel(expr.Loc(), "unexpected expression"))
		return types.TypeUnknown
	}
}

func checkIdentifier(c *checker, id *ast.IdentifierExpr) types.SemType {
	sym, ok := c.unit.Facts.Ref(id)
	if !ok || sym.IsType() {
		// unresolved names and types in value position were reported by the scoper
		return types.TypeUnknown
	}
	return symbolType(c, sym)
}

var (
	arithmeticOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true}
	bitwiseOps    = map[string]bool{"&": true, "|": true, "^": true, "<<": true, ">>": true}
	comparisonOps = map[string]bool{"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}
	logicalOps    = map[string]bool{"&&": true, "||": true}
)

func checkBinaryExpr(c *checker, e *ast.BinaryExpr, expected types.SemType) types.SemType {
	if logicalOps[e.Op] {
		xt := checkExpr(c, e.X, types.TypeBool)
		yt := checkExpr(c, e.Y, types.TypeBool)
		for _, operand := range []struct {
			expr ast.Expression
			typ  types.SemType
		}{{e.X, xt}, {e.Y, yt}} {
			if !types.IsUnknown(operand.typ) && !types.IsBool(operand.typ) {
				reportInvalidOperand(c, e.Op, operand.expr, operand.typ, "bool")
			}
		}
		return types.TypeBool
	}

	xt, yt := checkOperands(c, e, expected)
	isComparison := comparisonOps[e.Op]
	if types.IsUnknown(xt) || types.IsUnknown(yt) {
		if isComparison {
			return types.TypeBool
		}
		return types.TypeUnknown
	}

	switch {
	case isComparison:
		checkComparison(c, e, xt, yt)
		return types.TypeBool
	case bitwiseOps[e.Op]:
		if !types.IsInteger(xt) || !types.IsInteger(yt) {
			reportOperatorMismatch(c, e, xt, yt, "bitwise operators need integer operands")
			return types.TypeUnknown
		}
		if e.Op == "<<" || e.Op == ">>" {
			return types.Unwrap(xt)
		}
	case arithmeticOps[e.Op]:
		if !types.IsNumeric(xt) || !types.IsNumeric(yt) {
			reportOperatorMismatch(c, e, xt, yt, "arithmetic needs numeric operands")
			return types.TypeUnknown
		}
	default:
		c.unit.Report(diagnostics.NewBug("unknown binary operator "+e.Op).
			WithPrimaryLabel(e.Loc(), "here"))
		return types.TypeUnknown
	}

	wide := widerType(xt, yt)
	if wide == nil {
		reportOperatorMismatch(c, e, xt, yt, "neither operand widens to the other without loss")
		return types.TypeUnknown
	}
	return wide
}

// checkOperands types both sides of a binary expression. An untyped literal
// operand takes the type of the other side, so `x + 1` with x: u8 is u8.
func checkOperands(c *checker, e *ast.BinaryExpr, expected types.SemType) (types.SemType, types.SemType) {
	hint := expected
	if comparisonOps[e.Op] {
		hint = nil
	}
	if isUntypedLiteral(e.X) && !isUntypedLiteral(e.Y) {
		yt := checkExpr(c, e.Y, hint)
		return checkExpr(c, e.X, literalHint(yt)), yt
	}
	xt := checkExpr(c, e.X, hint)
	return xt, checkExpr(c, e.Y, literalHint(xt))
}

// literalHint is the type passed to the literal side of a binary expression
func literalHint(t types.SemType) types.SemType {
	if types.IsUnknown(t) {
		return nil
	}
	return types.Unwrap(t)
}

func checkComparison(c *checker, e *ast.BinaryExpr, xt, yt types.SemType) {
	equality := e.Op == "==" || e.Op == "!="
	ux, uy := types.Unwrap(xt), types.Unwrap(yt)

	switch {
	case types.IsNumeric(ux) && types.IsNumeric(uy):
		if widerType(ux, uy) == nil {
			reportOperatorMismatch(c, e, xt, yt, "neither operand widens to the other without loss")
		}
	case types.IsPointerLike(ux) || types.IsPointerLike(uy):
		switch {
		case !equality:
			c.unit.Report(diagnostics.NewError(fmt.Sprintf("pointers cannot be compared with %s", e.Op)).
				WithCode(diagnostics.ErrInvalidOperation).
				WithPrimaryLabel(e.Loc(), "only == and != are defined on pointers"))
		case !ux.Equals(uy):
			reportOperatorMismatch(c, e, xt, yt, "pointers must have the same type")
		}
	case types.IsBool(ux), types.IsChar(ux), isEnum(ux):
		switch {
		case !ux.Equals(uy):
			reportOperatorMismatch(c, e, xt, yt, "operands must have the same type")
		case !equality:
			c.unit.Report(diagnostics.NewError(fmt.Sprintf("'%s' values cannot be ordered", ux)).
				WithCode(diagnostics.ErrInvalidOperation).
				WithPrimaryLabel(e.Loc(), "only == and != are defined here"))
		}
	default:
		reportOperatorMismatch(c, e, xt, yt, "values of these types cannot be compared")
	}
}

func isEnum(t types.SemType) bool {
	_, ok := types.Unwrap(t).(*types.EnumType)
	return ok
}

func reportOperatorMismatch(c *checker, e *ast.BinaryExpr, xt, yt types.SemType, why string) {
	c.unit.Report(diagnostics.NewError(fmt.Sprintf("invalid operation: '%s' %s '%s'", xt, e.Op, yt)).
		WithCode(diagnostics.ErrInvalidOperation).
		WithPrimaryLabel(e.Loc(), why).
		WithHelp("convert one operand with an explicit cast"))
}

func reportInvalidOperand(c *checker, op string, operand ast.Expression, t types.SemType, want string) {
	c.unit.Report(diagnostics.NewError(fmt.Sprintf("operator %s is not defined on '%s'", op, t)).
		WithCode(diagnostics.ErrInvalidOperation).
		WithPrimaryLabel(operand.Loc(), "expected "+want))
}

func checkUnaryExpr(c *checker, e *ast.UnaryExpr, expected types.SemType) types.SemType {
	switch e.Op {
	case "-":
		if lit, ok := e.X.(*ast.BasicLit); ok && (lit.Kind == ast.INT || lit.Kind == ast.FLOAT) {
			t := checkLiteral(c, lit, expected, true)
			c.unit.Facts.SetType(lit, t)
			return t
		}
		t := checkExpr(c, e.X, expected)
		switch {
		case types.IsUnknown(t):
			return types.TypeUnknown
		case types.IsUnsigned(t):
			c.unit.Report(diagnostics.NewError(fmt.Sprintf("cannot negate a value of unsigned type '%s'", t)).
				WithCode(diagnostics.ErrInvalidOperation).
				WithPrimaryLabel(e.Loc(), "negation of an unsigned value").
				WithHelp(fmt.Sprintf("cast it to '%s' first", types.SignedCounterpart(types.Unwrap(t)))))
			return types.TypeUnknown
		case !types.IsNumeric(t):
			reportInvalidOperand(c, "-", e.X, t, "a number")
			return types.TypeUnknown
		}
		return types.Unwrap(t)
	case "!":
		t := checkExpr(c, e.X, types.TypeBool)
		if !types.IsUnknown(t) && !types.IsBool(t) {
			reportInvalidOperand(c, "!", e.X, t, "bool")
		}
		return types.TypeBool
	case "~":
		t := checkExpr(c, e.X, expected)
		if types.IsUnknown(t) {
			return types.TypeUnknown
		}
		if !types.IsInteger(t) {
			reportInvalidOperand(c, "~", e.X, t, "an integer")
			return types.TypeUnknown
		}
		return types.Unwrap(t)
	}
	c.unit.Report(diagnostics.NewBug("unknown unary operator "+e.Op).WithPrimaryLabel(e.Loc(), "here"))
	return types.TypeUnknown
}

// callee describes what a call site invokes
type callee struct {
	name     string
	params   []types.SemType
	ret      types.SemType
	variadic bool
}

func checkCallExpr(c *checker, e *ast.CallExpr) types.SemType {
	var sym *symbols.Symbol
	if e.Callee != nil {
		sym, _ = c.unit.Facts.Ref(e.Callee)
	}
	if sym == nil {
		checkArgsUnchecked(c, e.Args)
		return types.TypeUnknown
	}

	target, ok := calleeOf(c, sym)
	if !ok {
		c.unit.Report(diagnostics.NewError(fmt.Sprintf("%s %s is not callable", sym.Kind, sym.Name)).
			WithCode(diagnostics.ErrNotCallable).
			WithPrimaryLabel(e.Callee.Loc(), "called here"))
		checkArgsUnchecked(c, e.Args)
		return types.TypeUnknown
	}
	c.unit.Facts.SetType(e.Callee, symbolType(c, sym))
	checkArguments(c, e.Loc(), target, e.Args)
	return target.ret
}

func calleeOf(c *checker, sym *symbols.Symbol) (callee, bool) {
	if sym.Kind == symbols.SymbolStruct {
		st, ok := sym.Type.(*types.StructType)
		if !ok {
			return callee{}, false
		}
		params := make([]types.SemType, len(st.Fields))
		for i, f := range st.Fields {
			params[i] = f.Type
		}
		return callee{name: st.Name, params: params, ret: st}, true
	}

	if sym.IsType() {
		return callee{}, false
	}
	fn, ok := types.Unwrap(symbolType(c, sym)).(*types.FunctionType)
	if !ok {
		return callee{}, false
	}
	return callee{
		name:     sym.Name,
		params:   fn.Params,
		ret:      fn.Return,
		variadic: fn.Variadic || sym.Variadic,
	}, true
}

func checkIndirectCallExpr(c *checker, e *ast.IndirectCallExpr) types.SemType {
	ft := checkExpr(c, e.Fn, nil)
	if types.IsUnknown(ft) {
		checkArgsUnchecked(c, e.Args)
		return types.TypeUnknown
	}
	fn, ok := types.Unwrap(ft).(*types.FunctionType)
	if !ok {
		c.unit.Report(diagnostics.NewError(fmt.Sprintf("value of type '%s' is not callable", ft)).
			WithCode(diagnostics.ErrNotCallable).
			WithPrimaryLabel(e.Fn.Loc(), "called here"))
		checkArgsUnchecked(c, e.Args)
		return types.TypeUnknown
	}
	checkArguments(c, e.Loc(), callee{name: "function value", params: fn.Params, ret: fn.Return, variadic: fn.Variadic}, e.Args)
	return fn.Return
}

// checkArguments checks a call's arguments against the callee's parameters.
// On an arity mismatch the call gets the count error plus the expected
// argument order, and the arguments are typed without being compared.
func checkArguments(c *checker, loc *source.Location, target callee, args []ast.Expression) {
	arityOK := len(args) == len(target.params) || (target.variadic && len(args) > len(target.params))
	if !arityOK {
		c.unit.Report(diagnostics.WrongArgumentCount(loc, target.name, len(target.params), len(args)))
		c.unit.Report(diagnostics.NewError("expected argument order for "+target.name).
			WithCode(diagnostics.ErrArgumentOrder).
			WithPrimaryLabel(loc, "expected ("+joinTypes(target.params)+")"))
		checkArgsUnchecked(c, args)
		return
	}

	for i, arg := range args {
		if i >= len(target.params) {
			// extra arguments of a variadic callee
			checkExpr(c, arg, nil)
			continue
		}
		got := checkExpr(c, arg, target.params[i])
		checkAssignable(c, arg, got, target.params[i])
	}
}

func checkArgsUnchecked(c *checker, args []ast.Expression) {
	for _, arg := range args {
		checkExpr(c, arg, nil)
	}
}

func joinTypes(ts []types.SemType) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func checkFieldAccess(c *checker, e *ast.FieldAccessExpr) types.SemType {
	// Color.Red
	if id, ok := e.X.(*ast.IdentifierExpr); ok {
		if sym, found := c.unit.Facts.Ref(id); found && sym.Kind == symbols.SymbolEnum {
			return checkEnumVariant(c, e, id, sym)
		}
	}

	base := checkExpr(c, e.X, nil)
	if types.IsUnknown(base) {
		return types.TypeUnknown
	}

	t, steps, err := c.unit.Table.ResolveMember(base, e.Path)
	if err != nil {
		var fe *table.FieldError
		if !errors.As(err, &fe) {
			c.unit.Report(diagnostics.NewBug(err.Error()).WithPrimaryLabel(e.Loc(), "here"))
			return types.TypeUnknown
		}
		reportFieldError(c, e, fe)
		return types.TypeUnknown
	}
	c.unit.Facts.SetMembers(e, steps)
	return t
}

func checkEnumVariant(c *checker, e *ast.FieldAccessExpr, id *ast.IdentifierExpr, sym *symbols.Symbol) types.SemType {
	et, ok := sym.Type.(*types.EnumType)
	if !ok {
		return types.TypeUnknown
	}
	c.unit.Facts.SetType(id, et)
	if len(e.Path) != 1 || !et.HasVariant(e.Path[0]) {
		c.unit.Report(diagnostics.NewError(fmt.Sprintf("enum %s has no variant %s", et.Name, strings.Join(e.Path, "."))).
			WithCode(diagnostics.ErrFieldNotFound).
			WithPrimaryLabel(e.Loc(), "unknown variant").
			WithHelp("variants: "+strings.Join(et.Variants, ", ")))
		return types.TypeUnknown
	}
	return et
}

func reportFieldError(c *checker, e *ast.FieldAccessExpr, fe *table.FieldError) {
	switch fe.Reason {
	case table.FieldMissing:
		c.unit.Report(diagnostics.FieldNotFound(e.Loc(), fe.Segment, fe.Type.String()))
	case table.FieldNeedsPointer:
		c.unit.Report(diagnostics.NewError(fe.Error()).
			WithCode(diagnostics.ErrFieldNotFound).
			WithPrimaryLabel(e.Loc(), "mut values are not dereferenced implicitly").
			WithHelp(fmt.Sprintf("declare the value as ptr[%s]", types.Unwrap(fe.Type))))
	default:
		c.unit.Report(diagnostics.NewError(fe.Error()).
			WithCode(diagnostics.ErrFieldNotFound).
			WithPrimaryLabel(e.Loc(), "invalid field access"))
	}
}

func checkIndexExpr(c *checker, e *ast.IndexExpr) types.SemType {
	xt := checkExpr(c, e.X, nil)
	it := checkExpr(c, e.Index, types.TypeU64)
	if !types.IsUnknown(it) && !types.IsInteger(it) {
		c.unit.Report(diagnostics.NewError("index must be an integer").
			WithCode(diagnostics.ErrNotIndexable).
			WithPrimaryLabel(e.Index.Loc(), fmt.Sprintf("found '%s'", it)))
	}
	if types.IsUnknown(xt) {
		return types.TypeUnknown
	}

	switch x := types.Unwrap(xt).(type) {
	case *types.FixedArrayType:
		checkConstantIndex(c, e, x)
		return x.Elem
	case *types.ArrayType:
		return x.Elem
	case *types.PointerType:
		if !x.IsUntyped() {
			return x.Elem
		}
	}
	c.unit.Report(diagnostics.NewError(fmt.Sprintf("type '%s' cannot be indexed", xt)).
		WithCode(diagnostics.ErrNotIndexable).
		WithPrimaryLabel(e.X.Loc(), "not an array or typed pointer"))
	return types.TypeUnknown
}

func checkConstantIndex(c *checker, e *ast.IndexExpr, arr *types.FixedArrayType) {
	lit, ok := e.Index.(*ast.BasicLit)
	if !ok || lit.Kind != ast.INT {
		return
	}
	v, err := numeric.ParseInteger(lit.Value)
	if err != nil {
		return
	}
	if v.Sign() < 0 || !v.IsInt64() || v.Int64() >= int64(arr.Length) {
		c.unit.Report(diagnostics.NewError(fmt.Sprintf("index %s out of bounds for '%s'", lit.Value, arr)).
			WithCode(diagnostics.ErrArrayOutOfBounds).
			WithPrimaryLabel(lit.Loc(), fmt.Sprintf("valid indices are 0 to %d", arr.Length-1)))
	}
}

func checkCastExpr(c *checker, e *ast.CastExpr) types.SemType {
	target := resolveType(c, e.Type)
	src := checkExpr(c, e.X, nil)
	if !isValidCast(src, target) {
		c.unit.Report(diagnostics.NewError(fmt.Sprintf("cannot cast '%s' to '%s'", src, target)).
			WithCode(diagnostics.ErrInvalidCast).
			WithPrimaryLabel(e.Loc(), "invalid cast"))
	}
	return target
}

// checkArrayLit types an array literal. The element type is the written one,
// else the element type the context expects, else the highest ranked type
// among the elements.
func checkArrayLit(c *checker, e *ast.ArrayLit, expected types.SemType) types.SemType {
	var elem types.SemType
	if e.ElemType != nil {
		elem = resolveType(c, e.ElemType)
	} else {
		switch x := types.Unwrap(expected).(type) {
		case *types.FixedArrayType:
			elem = x.Elem
		case *types.ArrayType:
			elem = x.Elem
		}
	}

	if elem != nil {
		for _, el := range e.Elems {
			got := checkExpr(c, el, elem)
			checkAssignable(c, el, got, elem)
		}
		return types.NewFixedArray(elem, len(e.Elems))
	}

	elem = inferElementType(c, e.Elems)
	if elem == nil {
		c.unit.Report(diagnostics.NewError("cannot infer the element type of an empty array").
			WithCode(diagnostics.ErrInvalidOperation).
			WithPrimaryLabel(e.Loc(), "no elements").
			WithHelp("write the element type: (arr-of T)"))
		return types.NewFixedArray(types.TypeUnknown, 0)
	}
	for _, el := range e.Elems {
		got, _ := c.unit.Facts.TypeOf(el)
		checkAssignable(c, el, got, elem)
	}
	return types.NewFixedArray(elem, len(e.Elems))
}

// inferElementType types every element and returns the highest ranked
// element type, keeping the first on ties. Literals are typed last so they
// take the type picked from the other elements.
func inferElementType(c *checker, elems []ast.Expression) types.SemType {
	var best types.SemType
	pick := func(t types.SemType) {
		if types.IsUnknown(t) {
			return
		}
		if best == nil || types.Rank(t) > types.Rank(best) {
			best = types.Unwrap(t)
		}
	}

	for _, el := range elems {
		if !isUntypedLiteral(el) {
			pick(checkExpr(c, el, nil))
		}
	}
	hint := best
	for _, el := range elems {
		if isUntypedLiteral(el) {
			t := checkExpr(c, el, hint)
			if hint == nil {
				pick(t)
			}
		}
	}
	return best
}
