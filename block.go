package ptb

import (
	"errors"
)

// Block holds the ordered command list of one programmable transaction.
// Commands are created, edited, reordered and deleted through the block
// before any network interaction; every structural edit re-derives reference
// validity. A Block is not safe for concurrent use.
type Block struct {
	commands []*Command
}

// NewBlock creates an empty block.
func NewBlock(commands ...*Command) (*Block, error) {
	b := &Block{commands: make([]*Command, 0, 8)}
	for _, cmd := range commands {
		if err := b.Add(cmd); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Len returns the number of commands in the block.
func (b *Block) Len() int {
	return len(b.commands)
}

// CommandAt returns the command at position i, or nil if out of range.
func (b *Block) CommandAt(i int) *Command {
	if i < 0 || i >= len(b.commands) {
		return nil
	}
	return b.commands[i]
}

// Commands returns a copy of the command list.
func (b *Block) Commands() []*Command {
	out := make([]*Command, len(b.commands))
	copy(out, b.commands)
	return out
}

// AvailableReferences returns every result a command appended next could
// reference.
func (b *Block) AvailableReferences() []ResultRefCandidate {
	return AvailableReferences(b.commands)
}

// Add appends a command. Unset object-shaped argument slots are defaulted to
// the most recently produced prior result; explicit choices always win. A
// command whose references point at or past its own position is rejected.
func (b *Block) Add(cmd *Command) error {
	autoReference(cmd, b.commands)
	if err := checkReferences(cmd, len(b.commands), b.commands); err != nil {
		return err
	}
	b.commands = append(b.commands, cmd)
	return nil
}

// Insert places a command at position i, shifting later commands down.
// References held by shifted commands are re-pointed at their producers' new
// positions; the inserted command's own references must resolve before i.
func (b *Block) Insert(i int, cmd *Command) error {
	if i < 0 || i > len(b.commands) {
		return ErrCommandIndexRange
	}
	if err := checkReferences(cmd, i, b.commands); err != nil {
		return err
	}

	for _, later := range b.commands[i:] {
		shiftReferences(later, i, 1)
	}
	b.commands = append(b.commands, nil)
	copy(b.commands[i+1:], b.commands[i:])
	b.commands[i] = cmd
	return nil
}

// Remove deletes the command at position i. Downstream references to the
// deleted command become dangling and surface as blocking validation errors;
// they are never rewired to another command, guessing a replacement source is
// unsafe. References past i are re-pointed at their producers' new positions.
func (b *Block) Remove(i int) error {
	if i < 0 || i >= len(b.commands) {
		return ErrCommandIndexRange
	}

	b.commands = append(b.commands[:i], b.commands[i+1:]...)

	for _, cmd := range b.commands[i:] {
		for ai, arg := range cmd.args {
			ref, ok := arg.(ResultArgument)
			if !ok || ref.dangling {
				continue
			}
			switch {
			case ref.command == i:
				ref.dangling = true
				cmd.args[ai] = ref
			case ref.command > i:
				ref.command--
				cmd.args[ai] = ref
			}
		}
	}
	return nil
}

// Move relocates the command at position from to position to, keeping every
// reference pointed at its original producer. A move that would make any
// reference point forward is rejected outright and the block is left
// untouched.
func (b *Block) Move(from, to int) error {
	n := len(b.commands)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrCommandIndexRange
	}
	if from == to {
		return nil
	}

	// Position mapping under the proposed order.
	newIndex := func(old int) int {
		switch {
		case old == from:
			return to
		case from < to && old > from && old <= to:
			return old - 1
		case from > to && old >= to && old < from:
			return old + 1
		default:
			return old
		}
	}

	// Reject before mutating anything.
	for old, cmd := range b.commands {
		pos := newIndex(old)
		for ai, arg := range cmd.args {
			ref, ok := arg.(ResultArgument)
			if !ok || ref.dangling {
				continue
			}
			if newIndex(ref.command) >= pos {
				return &BuildError{
					CommandIndex: pos,
					CommandID:    cmd.id,
					Kind:         ForwardReference,
					Err:          argumentError(ai, ErrForwardReference),
				}
			}
		}
	}

	reordered := make([]*Command, n)
	for old, cmd := range b.commands {
		for ai, arg := range cmd.args {
			if ref, ok := arg.(ResultArgument); ok && !ref.dangling {
				ref.command = newIndex(ref.command)
				cmd.args[ai] = ref
			}
		}
		reordered[newIndex(old)] = cmd
	}
	b.commands = reordered
	return nil
}

// ReplaceArgument sets argument slot ai of the command at position ci. This
// is also the repair path for dangling references left by Remove.
func (b *Block) ReplaceArgument(ci, ai int, arg Argument) error {
	if ci < 0 || ci >= len(b.commands) {
		return ErrCommandIndexRange
	}
	cmd := b.commands[ci]
	if ai < 0 || ai >= len(cmd.args) {
		return ErrCommandIndexRange
	}

	prev := cmd.args[ai]
	cmd.args[ai] = arg
	if err := checkReferences(cmd, ci, b.commands); err != nil {
		cmd.args[ai] = prev
		return err
	}
	return nil
}

// Validate runs argument validation over the whole block: every literal is
// coerced against its declared type, every unset slot and dangling reference
// is reported as a missing input. All failures are collected; none causes a
// network call.
func (b *Block) Validate() error {
	return validateAll(b.commands)
}

func validateAll(commands []*Command) error {
	var errs []error
	for _, cmd := range commands {
		errs = append(errs, validateCommand(cmd)...)
	}
	return errors.Join(errs...)
}

func validateCommand(cmd *Command) []error {
	var errs []error
	for i, spec := range cmd.argSpecs() {
		switch arg := spec.arg.(type) {
		case nil:
			verr := newValidationError(MissingReference, "", spec.typ.String())
			verr.CommandID = cmd.id
			verr.ArgIndex = i
			verr.Err = ErrMissingArgument
			errs = append(errs, verr)

		case LiteralArgument:
			if _, err := Validate(arg.value, slotType(spec, arg)); err != nil {
				if verr, ok := err.(*ValidationError); ok {
					verr.CommandID = cmd.id
					verr.ArgIndex = i
				}
				errs = append(errs, err)
			}

		case GasArgument, ObjectArgument:
			// The gas coin and explicit object ids are objects; a slot whose
			// declared type is a plain value cannot take them. Result
			// references are exempt, a MoveCall output may be a plain value.
			if !objectSlot(spec.typ) {
				verr := newValidationError(WrongArgumentKind, arg.String(), spec.typ.String())
				verr.CommandID = cmd.id
				verr.ArgIndex = i
				errs = append(errs, verr)
			}

		case ResultArgument:
			if arg.dangling {
				verr := newValidationError(MissingReference, arg.String(), spec.typ.String())
				verr.CommandID = cmd.id
				verr.ArgIndex = i
				verr.Err = ErrDanglingReference
				errs = append(errs, verr)
			}
		}
	}
	return errs
}

// slotType picks the type a literal in this slot must satisfy: the slot's
// declared parameter type governs, falling back to the literal's own declared
// type when the parameter type is unknown.
func slotType(spec argSpec, arg LiteralArgument) MoveType {
	if spec.typ.Kind == KindStruct && spec.typ.Struct == "unknown" {
		return arg.typ
	}
	return spec.typ
}

// shiftReferences adds delta to every reference pointing at or past pivot.
func shiftReferences(cmd *Command, pivot, delta int) {
	for i, arg := range cmd.args {
		if ref, ok := arg.(ResultArgument); ok && !ref.dangling && ref.command >= pivot {
			ref.command += delta
			cmd.args[i] = ref
		}
	}
}

// snapshot clones the command list so an execution attempt sees a frozen
// block regardless of later edits.
func (b *Block) snapshot() []*Command {
	out := make([]*Command, len(b.commands))
	for i, cmd := range b.commands {
		out[i] = cmd.clone()
	}
	return out
}
