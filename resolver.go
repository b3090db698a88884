package ptb

// ResultRefCandidate describes one output of a prior command that a later
// command's argument may reference.
type ResultRefCandidate struct {
	// CommandIndex is the position of the producing command.
	CommandIndex int

	// ResultIndex is the output index, or NoResultIndex when the producing
	// command yields a single output.
	ResultIndex int

	// CommandID is the producing command's stable id.
	CommandID string

	// Kind is the producing command's kind.
	Kind CommandKind
}

// Argument returns the ResultArgument selecting this candidate.
func (c ResultRefCandidate) Argument() ResultArgument {
	if c.ResultIndex == NoResultIndex {
		return Result(c.CommandIndex)
	}
	return ResultAt(c.CommandIndex, c.ResultIndex)
}

// AvailableReferences computes every valid back-reference into the given
// prior commands, in production order. A candidate exists for every prior
// MoveCall (one output) and for every output of every prior SplitCoins.
// TransferObjects and MergeCoins return unit and contribute nothing.
func AvailableReferences(prior []*Command) []ResultRefCandidate {
	var candidates []ResultRefCandidate
	for i, cmd := range prior {
		switch cmd.ResultCount() {
		case 0:
		case 1:
			candidates = append(candidates, ResultRefCandidate{
				CommandIndex: i,
				ResultIndex:  NoResultIndex,
				CommandID:    cmd.id,
				Kind:         cmd.kind,
			})
		default:
			for j := 0; j < cmd.ResultCount(); j++ {
				candidates = append(candidates, ResultRefCandidate{
					CommandIndex: i,
					ResultIndex:  j,
					CommandID:    cmd.id,
					Kind:         cmd.kind,
				})
			}
		}
	}
	return candidates
}

// autoReference fills every unset object-shaped argument slot with the most
// recently produced prior result, if one exists. This is a convenience
// default applied when a command is appended; explicit argument choices are
// never overridden, and a slot with no candidate stays unset so validation
// surfaces it as a missing input.
func autoReference(cmd *Command, prior []*Command) {
	candidates := AvailableReferences(prior)
	if len(candidates) == 0 {
		return
	}
	latest := candidates[len(candidates)-1]

	for i, spec := range cmd.argSpecs() {
		if spec.arg != nil || !requiresObject(spec.typ) {
			continue
		}
		cmd.setArgument(i, latest.Argument())
	}
}

// checkReferences verifies every result reference of a command placed at the
// given position: references must point strictly backwards, must not be
// dangling, and must carry a result index exactly when the producing command
// yields multiple outputs.
func checkReferences(cmd *Command, position int, commands []*Command) error {
	for i, arg := range cmd.args {
		ref, ok := arg.(ResultArgument)
		if !ok {
			continue
		}

		var err error
		switch {
		case ref.dangling:
			err = ErrDanglingReference
		case ref.command < 0 || ref.command >= position:
			err = ErrForwardReference
		default:
			err = checkResultIndex(ref, commands[ref.command])
		}
		if err != nil {
			return &BuildError{
				CommandIndex: position,
				CommandID:    cmd.id,
				Kind:         referenceErrorKind(err),
				Err:          argumentError(i, err),
			}
		}
	}
	return nil
}

func checkResultIndex(ref ResultArgument, producer *Command) error {
	switch count := producer.ResultCount(); {
	case count == 0:
		return ErrNoResult
	case count == 1:
		if ref.index != NoResultIndex && ref.index != 0 {
			return ErrResultIndexOutOfRange
		}
	default:
		if ref.index == NoResultIndex {
			return ErrResultIndexRequired
		}
		if ref.index < 0 || ref.index >= count {
			return ErrResultIndexOutOfRange
		}
	}
	return nil
}

func referenceErrorKind(err error) BuildErrorKind {
	if err == ErrDanglingReference {
		return DanglingReference
	}
	return ForwardReference
}
