package diagnostics

// Diagnostic codes. The prefix names the pass that reports them.
const (
	// Forward declarator (F prefix)
	ErrMalformedDeclaration = "F0001"
	ErrDuplicateEntrypoint  = "F0002"
	ErrCyclicTypeAlias      = "F0003"
	ErrInvalidEnumBase      = "F0004"

	// Scoper (R prefix)
	ErrUndeclaredSymbol   = "R0001"
	ErrRedeclaredSymbol   = "R0002"
	ErrDuplicateLocal     = "R0003"
	ErrUnknownType        = "R0004"
	ErrTypeUsedAsValue    = "R0005"
	ErrDuplicateParameter = "R0006"

	// Type checker (T prefix)
	ErrTypeMismatch           = "T0001"
	ErrInvalidOperation       = "T0002"
	ErrNotCallable            = "T0003"
	ErrWrongArgumentCount     = "T0004"
	ErrArgumentOrder          = "T0005"
	ErrVoidDeclaration        = "T0006"
	ErrNonBoolCondition       = "T0007"
	ErrFieldNotFound          = "T0008"
	ErrNotIndexable           = "T0009"
	ErrInvalidCast            = "T0010"
	ErrInvalidReturn          = "T0011"
	ErrMissingReturnValue     = "T0012"
	ErrConstantReassignment   = "T0013"
	ErrNotAddressable         = "T0014"
	ErrLiteralOverflow        = "T0015"
	ErrArrayOutOfBounds       = "T0016"
	ErrMissingInitializer     = "T0017"
	ErrImmutableAssignment    = "T0018"
	ErrInvalidLowLevelOperand = "T0019"

	// Control flow (C prefix)
	ErrDuplicateReturn       = "C0001"
	ErrDuplicateBreak        = "C0002"
	ErrDuplicateContinue     = "C0003"
	ErrUnreachableCode       = "C0004"
	ErrBreakOutsideLoop      = "C0005"
	ErrContinueOutsideLoop   = "C0006"
	ErrReturnOutsideFunction = "C0007"
	ErrLowLevelOutsideScope  = "C0008"
	ErrMissingReturn         = "C0009"

	// Attributes (A prefix)
	ErrAttributeMisuse       = "A0001"
	ErrUnknownAttribute      = "A0002"
	ErrInvalidAttributeValue = "A0003"
	ErrDuplicateAttribute    = "A0004"
	ErrConflictingAttributes = "A0005"
	ErrMissingAttributeValue = "A0006"
	ErrExternWithBody        = "A0007"
	ErrMissingBody           = "A0008"

	// Warnings (W prefix)
	WarnAddressOfAddress = "W0001"

	// Compiler bugs (B prefix)
	BugInternal       = "B0001"
	BugPassOrder      = "B0002"
	BugScopeImbalance = "B0003"
)
