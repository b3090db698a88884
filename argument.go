package ptb

import (
	"fmt"
	"strings"
)

// Argument represents one input to a command.
// This is a sealed interface - only types within this package can implement it.
type Argument interface {
	// isArgument is unexported to seal the interface.
	isArgument()

	// String renders the argument for error messages and logs.
	String() string
}

// GasArgument refers to the transaction's native gas coin.
type GasArgument struct{}

func (GasArgument) isArgument() {}

// String implements fmt.Stringer.
func (GasArgument) String() string {
	return "gas"
}

// Gas returns the gas coin argument.
func Gas() GasArgument {
	return GasArgument{}
}

// ObjectArgument refers to an explicit on-ledger object by id.
type ObjectArgument struct {
	id Address
}

func (ObjectArgument) isArgument() {}

// ID returns the referenced object id.
func (a ObjectArgument) ID() Address {
	return a.id
}

// String implements fmt.Stringer.
func (a ObjectArgument) String() string {
	return "object(" + a.id.Hex() + ")"
}

// Object returns an explicit object reference argument.
func Object(id Address) ObjectArgument {
	return ObjectArgument{id: id}
}

// LiteralArgument is a user-supplied scalar coerced against a declared Move
// type at validation time.
type LiteralArgument struct {
	value string
	typ   MoveType
}

func (LiteralArgument) isArgument() {}

// Value returns the raw literal string.
func (a LiteralArgument) Value() string {
	return a.value
}

// Type returns the declared Move type.
func (a LiteralArgument) Type() MoveType {
	return a.typ
}

// String implements fmt.Stringer.
func (a LiteralArgument) String() string {
	return fmt.Sprintf("literal(%q: %s)", a.value, a.typ)
}

// Literal returns a literal argument with the given declared type.
func Literal(value string, typ MoveType) LiteralArgument {
	return LiteralArgument{value: value, typ: typ}
}

// LiteralU64 returns a u64 literal, the most common amount type.
func LiteralU64(value string) LiteralArgument {
	return Literal(value, TypeOf(KindU64))
}

// NoResultIndex marks a result reference to a single-output command.
const NoResultIndex = -1

// ResultArgument refers to the output of an earlier command in the block.
type ResultArgument struct {
	command int
	index   int // NoResultIndex for single-output commands

	// dangling is set when the referenced command was deleted. A dangling
	// reference blocks validation and is never repaired automatically.
	dangling bool
}

func (ResultArgument) isArgument() {}

// CommandIndex returns the position of the referenced command.
func (a ResultArgument) CommandIndex() int {
	return a.command
}

// ResultIndex returns the output index, or NoResultIndex when the referenced
// command yields a single output.
func (a ResultArgument) ResultIndex() int {
	return a.index
}

// Dangling reports whether the referenced command was deleted.
func (a ResultArgument) Dangling() bool {
	return a.dangling
}

// String implements fmt.Stringer.
func (a ResultArgument) String() string {
	if a.dangling {
		return "result(dangling)"
	}
	if a.index == NoResultIndex {
		return fmt.Sprintf("result(%d)", a.command)
	}
	return fmt.Sprintf("result(%d)[%d]", a.command, a.index)
}

// Result returns a reference to the single output of command i.
func Result(i int) ResultArgument {
	return ResultArgument{command: i, index: NoResultIndex}
}

// ResultAt returns a reference to output j of command i, for multi-output
// commands such as SplitCoins.
func ResultAt(i, j int) ResultArgument {
	return ResultArgument{command: i, index: j}
}

// ParseLegacyArgument coerces a bare string argument into a typed Argument.
// This is a compatibility shim for callers that still supply untyped strings:
// "gas" selects the gas coin, a 64-hex-character 0x id becomes an object
// reference when the declared type is object-shaped, and everything else
// becomes a literal of the declared type.
func ParseLegacyArgument(raw string, declared MoveType) Argument {
	if strings.EqualFold(raw, "gas") {
		return Gas()
	}
	if declared.Kind == KindObject || declared.IsReference() {
		if id, err := ParseAddress(raw); err == nil {
			return Object(id)
		}
	}
	return Literal(raw, declared)
}

// requiresObject reports whether a declared parameter type must be satisfied
// by an object-shaped argument: an explicit object id, the gas coin, or a
// prior command's result.
func requiresObject(t MoveType) bool {
	return t.Kind == KindObject || t.IsReference()
}

// objectSlot reports whether a slot accepts an object-shaped argument.
// Object and reference parameters always do; module-defined struct parameters
// are accepted too, their definitions are not inspected here.
func objectSlot(t MoveType) bool {
	return requiresObject(t) || t.Kind == KindStruct
}
