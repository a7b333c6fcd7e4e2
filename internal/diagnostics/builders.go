package diagnostics

import (
	"fmt"

	"github.com/thrushlang/thrushc-sub007/internal/source"
)

// Common diagnostic builders shared by several passes

// UndeclaredSymbol creates a diagnostic for a name with no visible declaration
func UndeclaredSymbol(loc *source.Location, name string) *Diagnostic {
	return NewError("undeclared symbol: "+name).
		WithCode(ErrUndeclaredSymbol).
		WithPrimaryLabel(loc, "not found in this scope").
		WithHelp("check that the symbol is declared before use")
}

// RedeclaredSymbol creates a diagnostic for redeclared symbol
func RedeclaredSymbol(newLoc, prevLoc *source.Location, name string) *Diagnostic {
	d := NewError(name+" is already declared").
		WithCode(ErrRedeclaredSymbol).
		WithPrimaryLabel(newLoc, "redeclared here")
	if prevLoc != nil {
		d.WithSecondaryLabel(prevLoc, "previously declared here")
	}
	return d.WithHelp("use a different name or remove one of the declarations")
}

// TypeMismatch creates a diagnostic for a value whose type does not satisfy the expected one
func TypeMismatch(loc *source.Location, expected, found fmt.Stringer) *Diagnostic {
	return NewError("mismatched types").
		WithCode(ErrTypeMismatch).
		WithPrimaryLabel(loc, fmt.Sprintf("expected '%s', found '%s'", expected, found))
}

// WrongArgumentCount creates a diagnostic for wrong number of arguments
func WrongArgumentCount(loc *source.Location, callee string, expected, found int) *Diagnostic {
	return NewError("wrong number of arguments to "+callee).
		WithCode(ErrWrongArgumentCount).
		WithPrimaryLabel(loc, fmt.Sprintf("expected %d argument(s), found %d", expected, found))
}

// FieldNotFound creates a diagnostic for field not found
func FieldNotFound(loc *source.Location, fieldName, typeName string) *Diagnostic {
	return NewError("field "+fieldName+" not found").
		WithCode(ErrFieldNotFound).
		WithPrimaryLabel(loc, typeName+" has no field "+fieldName).
		WithHelp("check the field name spelling")
}

// PassOrderBug reports that a pass ran before one of its prerequisites.
func PassOrderBug(pass, missing string) *Diagnostic {
	return newBug(fmt.Sprintf("%s ran before %s completed", pass, missing)).
		WithCode(BugPassOrder)
}

// UnknownType creates a diagnostic for a type name with no declaration
func UnknownType(loc *source.Location, name string) *Diagnostic {
	return NewError("unknown type: "+name).
		WithCode(ErrUnknownType).
		WithPrimaryLabel(loc, "no type named "+name+" in scope")
}
