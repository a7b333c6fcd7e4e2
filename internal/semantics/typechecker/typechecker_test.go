package typechecker

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/thrushlang/thrushc-sub007/internal/compctx"
	"github.com/thrushlang/thrushc-sub007/internal/config"
	"github.com/thrushlang/thrushc-sub007/internal/diagnostics"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/sexpr"
	"github.com/thrushlang/thrushc-sub007/internal/phase"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/collector"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/resolver"
	"github.com/thrushlang/thrushc-sub007/internal/types"
)

func checkWith(t *testing.T, cfg *config.Config, src string) (*compctx.Unit, *ast.Module) {
	t.Helper()
	mod, err := sexpr.Decode("test.th", src)
	be.Err(t, err, nil)
	u := compctx.New(mod, cfg)
	collector.CollectModule(u)
	resolver.ResolveModule(u)
	CheckModule(u)
	return u, mod
}

func check(t *testing.T, src string) (*compctx.Unit, *ast.Module) {
	t.Helper()
	return checkWith(t, nil, src)
}

// body wraps statements in a void function
func body(stmts string) string {
	return `(fn f () void (block ` + stmts + `))`
}

func TestCheckErrors(t *testing.T) {
	const add = `(fn add ((a s32) (b s32)) s32 (block (return (+ a b))))`
	tests := []struct {
		name  string
		src   string
		codes []string
	}{
		{
			"forward reference",
			`(fn a () s32 (block (return (call b))))
			 (fn b () s32 (block (return 1)))`,
			nil,
		},
		{
			"call arity mismatch",
			add + body(`(call add 1 2 3)`),
			[]string{diagnostics.ErrWrongArgumentCount, diagnostics.ErrArgumentOrder},
		},
		{
			"arity mismatch skips argument checks",
			add + body(`(call add true)`),
			[]string{diagnostics.ErrWrongArgumentCount, diagnostics.ErrArgumentOrder},
		},
		{
			"argument type mismatch",
			add + body(`(call add 1 true)`),
			[]string{diagnostics.ErrTypeMismatch},
		},
		{
			"every argument is checked",
			add + body(`(call add false true)`),
			[]string{diagnostics.ErrTypeMismatch, diagnostics.ErrTypeMismatch},
		},
		{
			"variadic callee accepts extra arguments",
			`(fn @ignore printf ((f ptr)) s32)` + body(`(call printf "x" 1 2.5)`),
			nil,
		},
		{
			"variadic callee still needs its declared arguments",
			`(fn @ignore printf ((f ptr)) s32)` + body(`(call printf)`),
			[]string{diagnostics.ErrWrongArgumentCount, diagnostics.ErrArgumentOrder},
		},
		{
			"intrinsic takes any typed pointer",
			body(`(let p _ (alloc u8)) (call memset p 0 16)`),
			nil,
		},
		{
			"literal takes the declared type",
			body(`(let a u8 255) (let b f32 1) (let c s64 9223372036854775807)`),
			nil,
		},
		{
			"literal overflow",
			body(`(let a u8 256)`),
			[]string{diagnostics.ErrLiteralOverflow},
		},
		{
			"default integer overflow",
			body(`(let a _ 3000000000)`),
			[]string{diagnostics.ErrLiteralOverflow},
		},
		{
			"negated unsigned literal is signed",
			body(`(let a u8 (- 1))`),
			[]string{diagnostics.ErrTypeMismatch},
		},
		{
			"negative literal overflow",
			body(`(let a s8 (- 129))`),
			[]string{diagnostics.ErrLiteralOverflow},
		},
		{
			"widening arithmetic",
			body(`(let a s8 1) (let b s64 2) (let c s64 (+ a b)) (let d u16 (+ 1 (* 2 3)))`),
			nil,
		},
		{
			"literal operand follows the other side",
			body(`(let a u8 1) (let b u8 (+ a 1))`),
			nil,
		},
		{
			"mixed signedness arithmetic",
			body(`(let a s32 1) (let b u32 2) (let c _ (+ a b))`),
			[]string{diagnostics.ErrInvalidOperation},
		},
		{
			"bitwise needs integers",
			body(`(let a f64 1.5) (let b _ (& a 1))`),
			[]string{diagnostics.ErrInvalidOperation},
		},
		{
			"narrowing assignment",
			body(`(let a s64 1) (let b s32 a)`),
			[]string{diagnostics.ErrTypeMismatch},
		},
		{
			"unsigned negation",
			body(`(let a u32 1) (let b _ (- a))`),
			[]string{diagnostics.ErrInvalidOperation},
		},
		{
			"logical operands must be bool",
			body(`(let b _ (&& true 1))`),
			[]string{diagnostics.ErrInvalidOperation},
		},
		{
			"pointer equality",
			body(`(let p _ (alloc s32)) (let q _ (alloc s32)) (let a bool (== p q)) (let b bool (!= p null))`),
			nil,
		},
		{
			"pointers cannot be ordered",
			body(`(let p _ (alloc s32)) (let q _ (alloc s32)) (let a _ (< p q))`),
			[]string{diagnostics.ErrInvalidOperation},
		},
		{
			"pointers of different types",
			body(`(let p _ (alloc s32)) (let q _ (alloc u8)) (let a _ (== p q))`),
			[]string{diagnostics.ErrInvalidOperation},
		},
		{
			"bool equality only",
			body(`(let a _ (== true false)) (let b _ (< true false))`),
			[]string{diagnostics.ErrInvalidOperation},
		},
		{
			"void declaration",
			body(`(let a void)`),
			[]string{diagnostics.ErrVoidDeclaration},
		},
		{
			"inferred void declaration",
			`(fn g () void (block))` + body(`(let a _ (call g))`),
			[]string{diagnostics.ErrVoidDeclaration},
		},
		{
			"undefined local skips the initializer check",
			body(`(let mut a s32) (set a 1)`),
			nil,
		},
		{
			"local without type or value",
			body(`(let a _)`),
			[]string{diagnostics.ErrMissingInitializer},
		},
		{
			"constant without value",
			`(const C s32)`,
			[]string{diagnostics.ErrMissingInitializer},
		},
		{
			"static without value is zeroed",
			`(static mut S s32)`,
			nil,
		},
		{
			"non bool conditions",
			body(`(if 1 (block)) (while (call g) (block)) (for _ 0 _ (block))`) + `(fn g () s32 (block (return 0)))`,
			[]string{diagnostics.ErrNonBoolCondition, diagnostics.ErrNonBoolCondition, diagnostics.ErrNonBoolCondition},
		},
		{
			"bool conditions",
			body(`(if (< 1 2) (block) (block)) (while true (block)) (for (let mut i s32 0) (< i 3) (set i (+ i 1)) (block))`),
			nil,
		},
		{
			"not callable",
			body(`(let a s32 1) (call a)`),
			[]string{diagnostics.ErrNotCallable},
		},
		{
			"parameter does not hide a function",
			`(fn g () s32 (block (return 1))) (fn f ((g bool)) void (block (let r s32 (call g))))`,
			nil,
		},
		{
			"local does not hide a function",
			`(fn g () s32 (block (return 1)))` + body(`(let g bool true) (let r s32 (call g))`),
			nil,
		},
		{
			"indirect call through a function value",
			add + body(`(let fp (fn (s32 s32) s32) add) (let r s32 (icall fp 1 2))`),
			nil,
		},
		{
			"indirect call arity",
			add + body(`(let fp (fn (s32 s32) s32) add) (icall fp 1)`),
			[]string{diagnostics.ErrWrongArgumentCount, diagnostics.ErrArgumentOrder},
		},
		{
			"indirect call on a number",
			body(`(let n s32 1) (icall n)`),
			[]string{diagnostics.ErrNotCallable},
		},
		{
			"struct constructor arity",
			`(struct P (x s32) (y s32))` + body(`(let p P (call P 1))`),
			[]string{diagnostics.ErrWrongArgumentCount, diagnostics.ErrArgumentOrder},
		},
		{
			"struct constructor field types",
			`(struct P (x s32) (y bool))` + body(`(let p P (call P 1 2))`),
			[]string{diagnostics.ErrTypeMismatch},
		},
		{
			"field not found",
			`(struct P (x s32)) (fn f ((p P)) s32 (block (return (. p y))))`,
			[]string{diagnostics.ErrFieldNotFound},
		},
		{
			"field of a number",
			`(fn f ((p s32)) s32 (block (return (. p x))))`,
			[]string{diagnostics.ErrFieldNotFound},
		},
		{
			"nested fields through a pointer",
			`(struct In (v u8)) (struct Out (i In)) (fn f ((o (ptr Out))) u8 (block (return (. o i v))))`,
			nil,
		},
		{
			"enum variants",
			`(enum E (A) (B 4)) (fn f () E (block (return (. E B))))
			 (fn g () E (block (return (. E C))))`,
			[]string{diagnostics.ErrFieldNotFound},
		},
		{
			"enum values must fit the base",
			`(enum E u8 (A 300))`,
			[]string{diagnostics.ErrLiteralOverflow},
		},
		{
			"enums compare for equality",
			`(enum E (A) (B)) (fn f ((e E)) bool (block (return (== e (. E A)))))`,
			nil,
		},
		{
			"not indexable",
			body(`(let a s32 1) (let b _ (index a 0))`),
			[]string{diagnostics.ErrNotIndexable},
		},
		{
			"index must be an integer",
			body(`(let a _ (arr 1 2)) (let b _ (index a true))`),
			[]string{diagnostics.ErrNotIndexable},
		},
		{
			"constant index out of bounds",
			body(`(let a _ (arr 1 2 3)) (let b _ (index a 2)) (let c _ (index a 3))`),
			[]string{diagnostics.ErrArrayOutOfBounds},
		},
		{
			"index through a typed pointer",
			body(`(let p _ (alloc s32)) (let v s32 (index p 4))`),
			nil,
		},
		{
			"valid casts",
			`(enum E (A))` + body(`(let a u8 (cast u8 300)) (let b s32 (cast s32 (. E A))) (let c addr (cast addr (alloc s32)))`),
			nil,
		},
		{
			"invalid cast",
			body(`(let a _ (cast bool 1))`),
			[]string{diagnostics.ErrInvalidCast},
		},
		{
			"return type mismatch",
			`(fn f () bool (block (return 1)))`,
			[]string{diagnostics.ErrInvalidReturn},
		},
		{
			"return widens",
			`(fn f ((a s8)) s64 (block (return a)))`,
			nil,
		},
		{
			"missing return value",
			`(fn f () s32 (block (return)))`,
			[]string{diagnostics.ErrMissingReturnValue},
		},
		{
			"void function returns a value",
			body(`(return 1)`),
			[]string{diagnostics.ErrInvalidReturn},
		},
		{
			"assign to constant",
			`(const C s32 1)` + body(`(set C 2)`),
			[]string{diagnostics.ErrConstantReassignment},
		},
		{
			"assign to a const typed place",
			body(`(let mut a (const s32) 1) (set a 2)`),
			[]string{diagnostics.ErrConstantReassignment},
		},
		{
			"assign to immutable local",
			body(`(let a s32 1) (set a 2)`),
			[]string{diagnostics.ErrImmutableAssignment},
		},
		{
			"assign to immutable parameter",
			`(fn f ((a s32)) void (block (set a 2)))`,
			[]string{diagnostics.ErrImmutableAssignment},
		},
		{
			"assign to mutable bindings",
			`(static mut S s32 0) (fn f ((mut a s32)) void (block (let mut b s32 1) (set a 2) (set b a) (set S b)))`,
			nil,
		},
		{
			"assign through mut struct",
			`(struct P (x s32)) (fn f ((p (mut P))) void (block (set (. p x) 1)))`,
			nil,
		},
		{
			"assign into immutable struct value",
			`(struct P (x s32)) (fn f ((p P)) void (block (set (. p x) 1)))`,
			[]string{diagnostics.ErrImmutableAssignment},
		},
		{
			"assign to a non place",
			body(`(set (+ 1 2) 3)`),
			[]string{diagnostics.ErrNotAddressable},
		},
		{
			"assignment type mismatch",
			body(`(let mut a s32 1) (set a true)`),
			[]string{diagnostics.ErrTypeMismatch},
		},
		{
			"address of a place",
			body(`(let v s32 1) (instr a _ (address v))`),
			nil,
		},
		{
			"address of a non place",
			body(`(let a _ (address 1))`),
			[]string{diagnostics.ErrNotAddressable},
		},
		{
			"address of a parser placeholder",
			body(`(let a _ (address (bad)))`),
			nil,
		},
		{
			"load from a number",
			body(`(let v s32 1) (let a s32 (load s32 v))`),
			[]string{diagnostics.ErrInvalidLowLevelOperand},
		},
		{
			"load through an address",
			body(`(let v s32 1) (instr a _ (address v)) (let b s32 (load s32 a))`),
			nil,
		},
		{
			"write checks the pointee",
			body(`(let p _ (alloc s32)) (write p 1) (write p true)`),
			[]string{diagnostics.ErrTypeMismatch},
		},
		{
			"write through a number",
			body(`(let v s32 1) (write v 1)`),
			[]string{diagnostics.ErrInvalidLowLevelOperand},
		},
		{
			"global constant read before its declaration",
			`(fn f () s64 (block (return C))) (const C _ 1)`,
			nil,
		},
		{
			"constant initialized from itself",
			`(const C _ C)`,
			[]string{diagnostics.ErrInvalidOperation},
		},
		{
			"array element mismatch",
			body(`(let a _ (arr true 1))`),
			[]string{diagnostics.ErrTypeMismatch},
		},
		{
			"explicit array element type",
			body(`(let a _ (arr-of u8 1 2 300))`),
			[]string{diagnostics.ErrLiteralOverflow},
		},
		{
			"expected array element type",
			body(`(let a (array u8 3) (arr 1 2 3)) (let b (array u8) (arr 1 2))`),
			nil,
		},
		{
			"empty untyped array",
			body(`(let a _ (arr))`),
			[]string{diagnostics.ErrInvalidOperation},
		},
		{
			"errors in siblings are all reported",
			body(`(let a u8 256) (let b bool 1) (if 2 (block (return 3)))`),
			[]string{diagnostics.ErrLiteralOverflow, diagnostics.ErrTypeMismatch, diagnostics.ErrNonBoolCondition, diagnostics.ErrInvalidReturn},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, _ := check(t, tt.src)
			be.Equal(t, u.Diagnostics.Codes(), tt.codes)
			be.True(t, u.Passes.Done(phase.PassTypeCheck))
		})
	}
}

func TestPointSum(t *testing.T) {
	u, mod := check(t, `
		(struct Point (_ s32) (_ s32))
		(fn sum ((p Point)) s32 (block (return (+ (. p 0) (. p 1)))))
		(entry (block (let r _ (call sum (call Point 1 2)))))`)
	be.Equal(t, u.Diagnostics.Codes(), []string(nil))

	ret := mod.Nodes[1].(*ast.FuncDecl).Body.Nodes[0].(*ast.ReturnStmt)
	sumExpr := ret.Result.(*ast.BinaryExpr)
	for i, operand := range []ast.Expression{sumExpr.X, sumExpr.Y} {
		fa := operand.(*ast.FieldAccessExpr)
		typ, ok := u.Facts.TypeOf(fa)
		be.True(t, ok)
		be.Equal(t, typ, types.SemType(types.TypeS32))

		steps, ok := u.Facts.Members(fa)
		be.True(t, ok)
		be.Equal(t, len(steps), 1)
		be.Equal(t, steps[0].Struct.Name, "Point")
		be.Equal(t, steps[0].Index, i)
	}

	let := mod.Nodes[2].(*ast.EntrypointDecl).Body.Nodes[0].(*ast.LocalDecl)
	callType, ok := u.Facts.TypeOf(let.Value)
	be.True(t, ok)
	be.Equal(t, callType.String(), "s32")

	sym, ok := u.Facts.Decl(let)
	be.True(t, ok)
	be.Equal(t, sym.Type.String(), "s32")
}

func TestTypeOfIsIdempotent(t *testing.T) {
	u, mod := check(t, body(`(let a _ (+ 1 2))`))
	be.Equal(t, u.Diagnostics.Codes(), []string(nil))

	value := mod.Nodes[0].(*ast.FuncDecl).Body.Nodes[0].(*ast.LocalDecl).Value
	first, ok := u.Facts.TypeOf(value)
	be.True(t, ok)
	second, ok := u.Facts.TypeOf(value)
	be.True(t, ok)
	be.True(t, first == second)
	be.Equal(t, first.String(), "s32")
}

func TestLiteralTypes(t *testing.T) {
	tests := []struct {
		name string
		stmt string
		want string
	}{
		{"default integer", `(let a _ 1)`, "s32"},
		{"declared integer", `(let a u16 1)`, "u16"},
		{"integer as float", `(let a f32 1)`, "f32"},
		{"default float", `(let a _ 1.5)`, "f64"},
		{"declared float", `(let a f32 1.5)`, "f32"},
		{"negated unsigned narrows", `(let a u16 (- 1))`, "s16"},
		{"negated signed stays", `(let a s8 (- 1))`, "s8"},
		{"bool", `(let a _ true)`, "bool"},
		{"char", `(let a _ (char "x"))`, "char"},
		{"string", `(let a _ "hi")`, "ptr[u8]"},
		{"untyped null", `(let a _ null)`, "ptr"},
		{"typed null", `(let a (ptr s32) null)`, "ptr[s32]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, mod := check(t, body(tt.stmt))
			value := mod.Nodes[0].(*ast.FuncDecl).Body.Nodes[0].(*ast.LocalDecl).Value
			typ, ok := u.Facts.TypeOf(value)
			be.True(t, ok)
			be.Equal(t, typ.String(), tt.want)
		})
	}
}

func TestDefaultIntegerFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultInt = "s64"
	u, mod := checkWith(t, cfg, body(`(let a _ 3000000000)`))
	be.Equal(t, u.Diagnostics.Codes(), []string(nil))

	decl := mod.Nodes[0].(*ast.FuncDecl).Body.Nodes[0].(*ast.LocalDecl)
	sym, ok := u.Facts.Decl(decl)
	be.True(t, ok)
	be.Equal(t, sym.Type.String(), "s64")
}

func TestArrayElementInference(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  string
		codes []string
	}{
		{
			"highest rank wins",
			body(`(let a s8 1) (let b s64 2) (let c _ (arr a b a))`),
			"array[s64; 3]",
			nil,
		},
		{
			"literals follow the typed elements",
			body(`(let b u8 2) (let c _ (arr 1 b 3))`),
			"array[u8; 3]",
			nil,
		},
		{
			"only literals",
			body(`(let c _ (arr 1 2.5))`),
			"array[f64; 2]",
			nil,
		},
		{
			"struct pointer ranks above integers",
			`(struct P (x s32))` + body(`(let p _ (alloc P)) (let c _ (arr p null))`),
			"array[ptr[P]; 2]",
			nil,
		},
		{
			"ties keep the first element",
			`(struct P (x s32)) (struct Q (y s32))` + body(`(let p P (call P 1)) (let q Q (call Q 2)) (let c _ (arr p q))`),
			"array[P; 2]",
			[]string{diagnostics.ErrTypeMismatch},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, mod := check(t, tt.src)
			be.Equal(t, u.Diagnostics.Codes(), tt.codes)

			stmts := mod.Nodes[len(mod.Nodes)-1].(*ast.FuncDecl).Body.Nodes
			last := stmts[len(stmts)-1].(*ast.LocalDecl)
			typ, ok := u.Facts.TypeOf(last.Value)
			be.True(t, ok)
			be.Equal(t, typ.String(), tt.want)
		})
	}
}

func TestFieldAccessThroughMut(t *testing.T) {
	const src = `(struct P (x s32))
		(fn viaMut ((p (mut P))) s32 (block (return (. p x))))
		(fn viaPtr ((p (ptr P))) s32 (block (return (. p x))))`

	tests := []struct {
		mode  config.MutDeref
		codes []string
	}{
		{config.MutDerefImplicit, nil},
		{config.MutDerefExplicit, []string{diagnostics.ErrFieldNotFound}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			cfg := config.Default()
			cfg.FieldAccess.MutDeref = tt.mode
			u, _ := checkWith(t, cfg, src)
			be.Equal(t, u.Diagnostics.Codes(), tt.codes)
		})
	}
}

func TestCallArityMismatchTypesArguments(t *testing.T) {
	u, mod := check(t, `(fn add ((a s32) (b s32)) s32 (block (return (+ a b))))`+body(`(call add 1 2 3)`))

	diags := u.Diagnostics.Diagnostics()
	be.Equal(t, len(diags), 2)
	be.Equal(t, diags[0].Code, diagnostics.ErrWrongArgumentCount)
	be.Equal(t, diags[1].Code, diagnostics.ErrArgumentOrder)
	be.Equal(t, diags[1].Labels[0].Message, "expected (s32, s32)")

	call := mod.Nodes[1].(*ast.FuncDecl).Body.Nodes[0].(*ast.ExprStmt).X.(*ast.CallExpr)
	for _, arg := range call.Args {
		typ, ok := u.Facts.TypeOf(arg)
		be.True(t, ok)
		be.Equal(t, typ.String(), "s32")
	}
	typ, _ := u.Facts.TypeOf(call)
	be.Equal(t, typ.String(), "s32")
}

func TestCheckWithoutScopePass(t *testing.T) {
	mod, err := sexpr.Decode("test.th", body(``))
	be.Err(t, err, nil)
	u := compctx.New(mod, nil)
	collector.CollectModule(u)
	CheckModule(u)
	be.Equal(t, u.Diagnostics.Codes(), []string{diagnostics.BugPassOrder})
	be.True(t, !u.Passes.Done(phase.PassTypeCheck))
}
