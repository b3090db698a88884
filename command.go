package ptb

import (
	"github.com/google/uuid"
)

// CommandKind specifies the ledger operation a command performs.
type CommandKind uint8

const (
	// MoveCall invokes a function in a published Move package.
	MoveCall CommandKind = iota

	// TransferObjects transfers one or more objects to a recipient address.
	TransferObjects

	// SplitCoins splits a coin into one new coin per amount.
	SplitCoins

	// MergeCoins merges source coins into a destination coin.
	MergeCoins
)

// String returns the kind name.
func (k CommandKind) String() string {
	switch k {
	case MoveCall:
		return "MoveCall"
	case TransferObjects:
		return "TransferObjects"
	case SplitCoins:
		return "SplitCoins"
	case MergeCoins:
		return "MergeCoins"
	default:
		return "Unknown"
	}
}

// Command represents a single ledger operation within a block. Its id is
// opaque and stable across edits; its position in the block is not.
type Command struct {
	id          string
	kind        CommandKind
	description string

	// MoveCall fields.
	target   Target
	typeArgs []string
	params   []MoveType

	// Argument slots in canonical order. The mapping from slot position to
	// semantic field depends on the kind, see argSpecs.
	args []Argument
}

// NewMoveCall creates a MoveCall command. params holds the declared parameter
// types of the target function in order; a trailing transaction-context
// parameter is supplied implicitly by the runtime and may be included or
// omitted, it never consumes an argument slot.
func NewMoveCall(target Target, params []MoveType, args []Argument, typeArgs ...string) *Command {
	return &Command{
		id:       uuid.NewString(),
		kind:     MoveCall,
		target:   target,
		typeArgs: typeArgs,
		params:   params,
		args:     args,
	}
}

// NewTransferObjects creates a TransferObjects command sending objects to the
// recipient address.
func NewTransferObjects(objects []Argument, recipient Argument) *Command {
	args := make([]Argument, 0, len(objects)+1)
	args = append(args, objects...)
	args = append(args, recipient)
	return &Command{
		id:   uuid.NewString(),
		kind: TransferObjects,
		args: args,
	}
}

// NewSplitCoins creates a SplitCoins command splitting coin into one new coin
// per amount.
func NewSplitCoins(coin Argument, amounts []Argument) *Command {
	args := make([]Argument, 0, len(amounts)+1)
	args = append(args, coin)
	args = append(args, amounts...)
	return &Command{
		id:   uuid.NewString(),
		kind: SplitCoins,
		args: args,
	}
}

// NewMergeCoins creates a MergeCoins command merging sources into destination.
func NewMergeCoins(destination Argument, sources []Argument) *Command {
	args := make([]Argument, 0, len(sources)+1)
	args = append(args, destination)
	args = append(args, sources...)
	return &Command{
		id:   uuid.NewString(),
		kind: MergeCoins,
		args: args,
	}
}

// WithDescription attaches a cosmetic description and returns the command.
func (c *Command) WithDescription(desc string) *Command {
	c.description = desc
	return c
}

// ID returns the command's stable opaque id.
func (c *Command) ID() string {
	return c.id
}

// Kind returns the command kind.
func (c *Command) Kind() CommandKind {
	return c.kind
}

// Description returns the cosmetic description, if any.
func (c *Command) Description() string {
	return c.description
}

// Target returns the MoveCall target. Zero for other kinds.
func (c *Command) Target() Target {
	return c.target
}

// TypeArguments returns the MoveCall type arguments.
func (c *Command) TypeArguments() []string {
	return c.typeArgs
}

// Arguments returns the command's argument slots in canonical order.
func (c *Command) Arguments() []Argument {
	return c.args
}

// ResultCount returns the number of results the command produces. MoveCall
// yields one, SplitCoins yields one coin per amount, TransferObjects and
// MergeCoins return unit and yield none.
func (c *Command) ResultCount() int {
	switch c.kind {
	case MoveCall:
		return 1
	case SplitCoins:
		return len(c.args) - 1
	default:
		return 0
	}
}

// effectiveParams returns the MoveCall parameter types that consume argument
// slots, dropping a trailing transaction-context parameter.
func (c *Command) effectiveParams() []MoveType {
	if len(c.params) > 0 && isTxContext(c.params[len(c.params)-1]) {
		return c.params[:len(c.params)-1]
	}
	return c.params
}

// argSpec pairs an argument slot with its declared type.
type argSpec struct {
	typ MoveType
	arg Argument
}

// argSpecs returns every argument slot with the Move type it must satisfy.
// For MoveCall the types come from the declared parameters; the structural
// commands have fixed shapes: coins and objects are object-shaped, amounts
// are u64, recipients are addresses.
func (c *Command) argSpecs() []argSpec {
	specs := make([]argSpec, len(c.args))

	switch c.kind {
	case MoveCall:
		params := c.effectiveParams()
		for i, arg := range c.args {
			typ := StructOf("unknown")
			if i < len(params) {
				typ = params[i]
			}
			specs[i] = argSpec{typ: typ, arg: arg}
		}

	case TransferObjects:
		for i, arg := range c.args {
			if i == len(c.args)-1 {
				specs[i] = argSpec{typ: TypeOf(KindAddress), arg: arg}
			} else {
				specs[i] = argSpec{typ: TypeOf(KindObject), arg: arg}
			}
		}

	case SplitCoins:
		for i, arg := range c.args {
			if i == 0 {
				specs[i] = argSpec{typ: TypeOf(KindObject), arg: arg}
			} else {
				specs[i] = argSpec{typ: TypeOf(KindU64), arg: arg}
			}
		}

	case MergeCoins:
		for i, arg := range c.args {
			specs[i] = argSpec{typ: TypeOf(KindObject), arg: arg}
		}
	}

	return specs
}

// setArgument replaces the argument at slot i.
func (c *Command) setArgument(i int, arg Argument) {
	c.args[i] = arg
}

// clone creates a copy of the command with the same id and a fresh argument
// slice, so reference rewrites on one copy do not leak into another.
func (c *Command) clone() *Command {
	clone := *c
	clone.args = make([]Argument, len(c.args))
	copy(clone.args, c.args)
	return &clone
}
