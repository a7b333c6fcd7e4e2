package typechecker

import (
	"fmt"
	"math/big"

	"github.com/thrushlang/thrushc-sub007/internal/diagnostics"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/types"
	"github.com/thrushlang/thrushc-sub007/internal/utils/numeric"
)

// checkLiteral is the single place literal types are decided.
//
// Rules:
//   - an integer takes the expected integer or float type, else the configured default
//   - a float takes the expected float type, else f64
//   - a negative integer aimed at an unsigned type narrows to the signed type of the same width
//   - integers must fit the type they end up with
//
// negated is set when the literal is the operand of a unary minus.
func checkLiteral(c *checker, lit *ast.BasicLit, expected types.SemType, negated bool) types.SemType {
	switch lit.Kind {
	case ast.INT:
		target := c.defaultInt
		if types.IsInteger(expected) || types.IsFloat(expected) {
			target = types.Unwrap(expected)
		}
		if types.IsFloat(target) {
			return target
		}

		v, err := numeric.ParseInteger(lit.Value)
		if err != nil {
			c.unit.Report(diagnostics.NewError(err.Error()).
				WithCode(diagnostics.ErrLiteralOverflow).
				WithPrimaryLabel(lit.Loc(), "not a number"))
			return types.TypeUnknown
		}
		if negated {
			v.Neg(v)
		}
		if v.Sign() < 0 && types.IsUnsigned(target) {
			target = types.SignedCounterpart(target)
		}
		checkIntegerFits(c, lit, v, target)
		return target

	case ast.FLOAT:
		if types.IsFloat(expected) {
			return types.Unwrap(expected)
		}
		t, _ := types.FromName(string(types.DEFAULT_FLOAT_TYPE))
		return t

	case ast.BOOL:
		return types.TypeBool
	case ast.CHAR:
		return types.TypeChar
	case ast.STRING:
		// string literals are NUL terminated byte sequences
		return types.NewPointer(types.TypeU8)
	case ast.NULL:
		if types.IsPointerLike(expected) {
			return types.Unwrap(expected)
		}
		return types.NewPointer(nil)
	}
	return types.TypeUnknown
}

func checkIntegerFits(c *checker, lit *ast.BasicLit, v *big.Int, target types.SemType) {
	name, ok := types.GetPrimitiveName(target)
	if !ok {
		return
	}
	if numeric.FitsInteger(v, types.GetNumberBitSize(name), types.IsSignedName(name)) {
		return
	}
	c.unit.Report(diagnostics.NewError(fmt.Sprintf("integer literal %s overflows '%s'", v, name)).
		WithCode(diagnostics.ErrLiteralOverflow).
		WithPrimaryLabel(lit.Loc(), fmt.Sprintf("'%s' holds %s", name, getTypeRange(target))).
		WithHelp("use a wider type or an explicit cast"))
}

// isUntypedLiteral reports whether e is a numeric literal whose type still
// depends on its context, optionally behind a unary minus.
func isUntypedLiteral(e ast.Expression) bool {
	switch x := e.(type) {
	case *ast.BasicLit:
		return x.Kind == ast.INT || x.Kind == ast.FLOAT || x.Kind == ast.NULL
	case *ast.UnaryExpr:
		return x.Op == "-" && isUntypedLiteral(x.X)
	}
	return false
}

