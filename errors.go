package ptb

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
var (
	// ErrForwardReference indicates an argument references the command itself
	// or a command at a later position in the block.
	ErrForwardReference = errors.New("ptb: argument references a command at an equal or later position")

	// ErrDanglingReference indicates an argument references a command that
	// was deleted from the block.
	ErrDanglingReference = errors.New("ptb: argument references a deleted command")

	// ErrResultIndexRequired indicates a multi-output command was referenced
	// without a result index.
	ErrResultIndexRequired = errors.New("ptb: referenced command produces multiple results, result index required")

	// ErrResultIndexOutOfRange indicates the result index exceeds the number
	// of outputs the referenced command produces.
	ErrResultIndexOutOfRange = errors.New("ptb: result index out of range for referenced command")

	// ErrNoResult indicates the referenced command produces no reusable result.
	ErrNoResult = errors.New("ptb: referenced command produces no result")

	// ErrCommandIndexRange indicates a block edit addressed a command index
	// outside the block.
	ErrCommandIndexRange = errors.New("ptb: command index out of range")

	// ErrEmptyBlock indicates an attempt to build or execute a block with no
	// commands.
	ErrEmptyBlock = errors.New("ptb: block has no commands")

	// ErrMissingArgument indicates an argument slot left without any source.
	ErrMissingArgument = errors.New("ptb: argument slot has no source")

	// ErrTooManyCommands indicates the block exceeds the command limit.
	ErrTooManyCommands = errors.New("ptb: too many commands in block")

	// ErrNoSigner indicates a real submission was required but the engine has
	// no signer configured.
	ErrNoSigner = errors.New("ptb: no signer configured for submission")
)

// ValidationErrorKind classifies argument validation failures.
type ValidationErrorKind uint8

const (
	// NotANumber indicates a literal for an integer type did not parse as an
	// exact integer.
	NotANumber ValidationErrorKind = iota

	// OutOfRange indicates an integer literal outside the type's closed range.
	OutOfRange

	// InvalidBoolean indicates a bool literal other than "true" or "false".
	InvalidBoolean

	// InvalidAddressFormat indicates a malformed address or object id.
	InvalidAddressFormat

	// InvalidVector indicates a vector literal that is not a JSON array, or
	// whose element failed validation.
	InvalidVector

	// MissingReference indicates an argument slot with no usable source: a
	// dangling result reference or an unfilled reference parameter.
	MissingReference

	// WrongArgumentKind indicates an object-shaped argument, such as the gas
	// coin, placed in a slot whose declared type is not object-shaped.
	WrongArgumentKind
)

// String returns the kind name.
func (k ValidationErrorKind) String() string {
	switch k {
	case NotANumber:
		return "NotANumber"
	case OutOfRange:
		return "OutOfRange"
	case InvalidBoolean:
		return "InvalidBoolean"
	case InvalidAddressFormat:
		return "InvalidAddressFormat"
	case InvalidVector:
		return "InvalidVector"
	case MissingReference:
		return "MissingReference"
	case WrongArgumentKind:
		return "WrongArgumentKind"
	default:
		return "Unknown"
	}
}

// ValidationError indicates a literal argument failed validation against its
// declared type. It is always local: no network call is made for a block that
// fails validation.
type ValidationError struct {
	Kind         ValidationErrorKind
	Value        string
	DeclaredType string

	// CommandID and ArgIndex locate the offending argument within a block.
	// Empty and -1 when the error comes from a bare Validate call.
	CommandID string
	ArgIndex  int

	// Element is the failing element index in the outermost vector for vector
	// literals, -1 otherwise. For nested vectors Path holds the full index
	// chain from the outermost vector down to the failing element.
	Element int
	Path    []int

	Err error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("ptb: ")
	if e.CommandID != "" {
		fmt.Fprintf(&b, "command %s argument %d: ", e.CommandID, e.ArgIndex)
	}
	fmt.Fprintf(&b, "%s: %q is not a valid %s", e.Kind, e.Value, e.DeclaredType)
	if e.Element >= 0 {
		fmt.Fprintf(&b, " (element %d", e.Element)
		if len(e.Path) > 1 {
			for _, idx := range e.Path[1:] {
				fmt.Fprintf(&b, "[%d]", idx)
			}
		}
		b.WriteString(")")
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// newValidationError builds a ValidationError with the locator fields unset.
func newValidationError(kind ValidationErrorKind, value, declaredType string) *ValidationError {
	return &ValidationError{
		Kind:         kind,
		Value:        value,
		DeclaredType: declaredType,
		ArgIndex:     -1,
		Element:      -1,
	}
}

// ArgumentError locates an error at one argument slot of a command.
type ArgumentError struct {
	Index int
	Err   error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument %d: %v", e.Index, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

func argumentError(i int, err error) error {
	return &ArgumentError{Index: i, Err: err}
}

// LookupError indicates a pre-flight existence check failed for one object.
type LookupError struct {
	ObjectID Address
	Network  Network
	NotFound bool
	Err      error
}

func (e *LookupError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("ptb: object %s does not exist on network %s", e.ObjectID, e.Network)
	}
	return fmt.Sprintf("ptb: object lookup for %s on network %s failed: %v", e.ObjectID, e.Network, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// LookupErrors aggregates every failed pre-flight object check. All distinct
// object ids are checked before the aggregate is reported.
type LookupErrors struct {
	Errors []*LookupError
}

func (e *LookupErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ptb: %d object lookups failed:", len(e.Errors))
	for _, le := range e.Errors {
		b.WriteString("\n\t")
		b.WriteString(le.Error())
	}
	return b.String()
}

func (e *LookupErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, le := range e.Errors {
		errs[i] = le
	}
	return errs
}

// BuildErrorKind classifies transaction build failures.
type BuildErrorKind uint8

const (
	// ArityMismatch indicates a command's argument count does not match the
	// declared parameter count.
	ArityMismatch BuildErrorKind = iota

	// DanglingReference indicates a result reference to a command no longer
	// present in the block.
	DanglingReference

	// ForwardReference indicates a result reference to an equal or later
	// command position.
	ForwardReference

	// InvalidArgument indicates an argument failed the mandatory pre-build
	// validation pass.
	InvalidArgument
)

// String returns the kind name.
func (k BuildErrorKind) String() string {
	switch k {
	case ArityMismatch:
		return "ArityMismatch"
	case DanglingReference:
		return "DanglingReference"
	case ForwardReference:
		return "ForwardReference"
	case InvalidArgument:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}

// BuildError wraps errors that occur while lowering the command list into
// instructions. A BuildError aborts the whole build; partial instruction
// sequences are never produced.
type BuildError struct {
	CommandIndex int
	CommandID    string
	Kind         BuildErrorKind
	Err          error
}

func (e *BuildError) Error() string {
	if e.CommandID != "" {
		return fmt.Sprintf("ptb: build: command %d (%s): %s: %v", e.CommandIndex, e.CommandID, e.Kind, e.Err)
	}
	return fmt.Sprintf("ptb: build: command %d: %s: %v", e.CommandIndex, e.Kind, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// ArityError indicates a MoveCall argument count that does not match the
// target function's declared parameter count.
type ArityError struct {
	Target Target
	Want   int
	Got    int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("ptb: %s takes %d arguments, got %d", e.Target, e.Want, e.Got)
}

// TargetError indicates a malformed package::module::function path.
type TargetError struct {
	Target string
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("ptb: invalid move call target %q, want package::module::function", e.Target)
}

// SimulationError wraps a failed simulation attempt.
type SimulationError struct {
	Sender  Address
	Message string
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("ptb: simulation with sender %s failed: %s", e.Sender, e.Message)
}

// IsDeserialization reports whether the failure is a deserialization-class
// error. This is the only simulation failure that triggers the engine's
// single sender-fallback retry.
func (e *SimulationError) IsDeserialization() bool {
	return isDeserializationMessage(e.Message)
}

func isDeserializationMessage(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "deserial")
}

// SubmissionError wraps a ledger rejection of a real signed submission. The
// raw message is surfaced verbatim; for recognized cases a short
// human-readable hint is appended.
type SubmissionError struct {
	Digest  string
	Message string
}

func (e *SubmissionError) Error() string {
	if hint := submissionHint(e.Message); hint != "" {
		return fmt.Sprintf("ptb: submission failed: %s (%s)", e.Message, hint)
	}
	return fmt.Sprintf("ptb: submission failed: %s", e.Message)
}

// submissionHint maps recognized ledger rejections to a short hint.
func submissionHint(msg string) string {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "insufficient"):
		return "the sender's gas coin cannot cover the transaction cost; fund the account or lower the gas budget"
	case strings.Contains(m, "package") && strings.Contains(m, "not found"):
		return "the target package id does not exist on this network; check the package id and network"
	case strings.Contains(m, "function") && strings.Contains(m, "not found"):
		return "the target function does not exist in the package; check the module and function names"
	default:
		return ""
	}
}
