package table

import (
	"fmt"
	"strconv"

	"github.com/thrushlang/thrushc-sub007/internal/config"
	"github.com/thrushlang/thrushc-sub007/internal/types"
)

// FieldErrorReason says why a member path could not be walked
type FieldErrorReason int

const (
	// FieldNotStruct: the value at this segment is not a struct (or pointer to one).
	FieldNotStruct FieldErrorReason = iota
	// FieldMissing: the struct has no field with this name.
	FieldMissing
	// FieldIndexOutOfRange: a numeric segment is past the last field.
	FieldIndexOutOfRange
	// FieldNeedsPointer: `mut Struct` accessed while implicit dereference is disabled.
	FieldNeedsPointer
)

// FieldError describes the segment of a member path that failed.
type FieldError struct {
	Reason  FieldErrorReason
	Segment string
	Type    types.SemType // the type the segment was applied to
}

func (e *FieldError) Error() string {
	switch e.Reason {
	case FieldMissing:
		return fmt.Sprintf("%s has no field %s", e.Type, e.Segment)
	case FieldIndexOutOfRange:
		return fmt.Sprintf("%s has no field at index %s", e.Type, e.Segment)
	case FieldNeedsPointer:
		return fmt.Sprintf("field %s of %s needs a ptr[%s] to be reached", e.Segment, e.Type, types.Unwrap(e.Type))
	default:
		return fmt.Sprintf("%s is not a struct, cannot access field %s", e.Type, e.Segment)
	}
}

// MemberStep records one hop of a member path: the struct walked into and
// the index of the selected field.
type MemberStep struct {
	Struct *types.StructType
	Index  int
	Field  string
	Deref  bool // the hop looked through a pointer or mut
}

// ResolveMember walks path from t through nested structs and returns the
// type of the last field with one step per segment.
func (st *SymbolTable) ResolveMember(t types.SemType, path []string) (types.SemType, []MemberStep, error) {
	cur := t
	steps := make([]MemberStep, 0, len(path))
	for _, seg := range path {
		s, deref, err := st.structOf(cur, seg)
		if err != nil {
			return nil, steps, err
		}

		field, idx, ok := s.Field(seg)
		if !ok {
			n, convErr := strconv.Atoi(seg)
			switch {
			case convErr != nil:
				return nil, steps, &FieldError{Reason: FieldMissing, Segment: seg, Type: s}
			case n < 0 || n >= len(s.Fields):
				return nil, steps, &FieldError{Reason: FieldIndexOutOfRange, Segment: seg, Type: s}
			}
			field, idx = s.Fields[n], n
		}

		steps = append(steps, MemberStep{Struct: s, Index: idx, Field: field.Name, Deref: deref})
		cur = field.Type
	}
	return cur, steps, nil
}

func (st *SymbolTable) structOf(t types.SemType, seg string) (*types.StructType, bool, error) {
	base := t
	if c, ok := base.(*types.ConstType); ok {
		base = c.Inner
	}

	deref := false
	if m, ok := base.(*types.MutType); ok {
		if _, isStruct := types.Unwrap(m.Inner).(*types.StructType); isStruct && st.mutDeref == config.MutDerefExplicit {
			return nil, false, &FieldError{Reason: FieldNeedsPointer, Segment: seg, Type: t}
		}
		base = m.Inner
		deref = true
	}

	if s, ok := types.PointeeStruct(base); ok {
		return s, true, nil
	}
	if s, ok := types.Unwrap(base).(*types.StructType); ok {
		return s, deref, nil
	}
	return nil, false, &FieldError{Reason: FieldNotStruct, Segment: seg, Type: t}
}
