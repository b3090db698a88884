package ptb

// OperandKind tags a resolved instruction operand.
type OperandKind uint8

const (
	// OperandGas is the block's shared gas coin handle.
	OperandGas OperandKind = iota

	// OperandObject is a lazy object input; the ledger client materializes
	// the concrete version and digest at transaction build time.
	OperandObject

	// OperandPure is a coerced literal value.
	OperandPure

	// OperandResult is the handle of an earlier instruction's output.
	OperandResult
)

// Operand is one concrete input wired into an instruction.
type Operand struct {
	Kind OperandKind

	// Object is set for OperandObject.
	Object Address

	// Pure is set for OperandPure.
	Pure TypedValue

	// Command and Index locate the producing instruction's output for
	// OperandResult.
	Command int
	Index   int
}

// Instruction is one lowered ledger operation with every argument
// materialized into a concrete operand. The ledger client consumes the
// linear instruction sequence verbatim.
type Instruction struct {
	Kind          CommandKind
	Target        Target
	TypeArguments []string
	Operands      []Operand

	// Results is the number of output handles the instruction produces.
	Results int
}

// Plan is the output of Build, ready for the ledger client.
type Plan struct {
	Instructions []Instruction
	GasBudget    uint64
}

// Build lowers an ordered command list into the linear instruction sequence
// the ledger client consumes. Every literal is re-validated while lowering;
// any failure aborts the whole build, partial instruction sequences are never
// produced.
func Build(commands []*Command, opts ...BuildOption) (*Plan, error) {
	cfg := defaultBuildConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if len(commands) == 0 {
		return nil, ErrEmptyBlock
	}
	if len(commands) > cfg.maxCommands {
		return nil, ErrTooManyCommands
	}

	// results[i] is the number of output handles command i produced.
	results := make([]int, len(commands))
	instructions := make([]Instruction, 0, len(commands))

	for i, cmd := range commands {
		if err := checkArity(i, cmd); err != nil {
			return nil, err
		}

		specs := cmd.argSpecs()
		operands := make([]Operand, len(specs))
		for ai, spec := range specs {
			op, err := resolveOperand(spec, i, results)
			if err != nil {
				return nil, &BuildError{
					CommandIndex: i,
					CommandID:    cmd.id,
					Kind:         buildErrorKind(err),
					Err:          argumentError(ai, err),
				}
			}
			operands[ai] = op
		}

		results[i] = cmd.ResultCount()
		instructions = append(instructions, Instruction{
			Kind:          cmd.kind,
			Target:        cmd.target,
			TypeArguments: cmd.typeArgs,
			Operands:      operands,
			Results:       results[i],
		})
	}

	return &Plan{
		Instructions: instructions,
		GasBudget:    cfg.gasBudget,
	}, nil
}

// checkArity verifies a MoveCall's argument count matches the declared
// parameter count, excluding a trailing context parameter the runtime
// supplies implicitly. The structural commands carry their arity in their
// constructors and cannot mismatch.
func checkArity(i int, cmd *Command) error {
	if cmd.kind != MoveCall {
		return nil
	}
	want := len(cmd.effectiveParams())
	if got := len(cmd.args); got != want {
		return &BuildError{
			CommandIndex: i,
			CommandID:    cmd.id,
			Kind:         ArityMismatch,
			Err:          &ArityError{Want: want, Got: got, Target: cmd.target},
		}
	}
	return nil
}

// resolveOperand materializes one argument into a concrete operand.
// Under the forward-only invariant the result lookup cannot fail for a block
// maintained through Block edits; it is re-checked anyway because Build also
// accepts raw command slices.
func resolveOperand(spec argSpec, current int, results []int) (Operand, error) {
	switch arg := spec.arg.(type) {
	case GasArgument:
		return Operand{Kind: OperandGas}, nil

	case ObjectArgument:
		return Operand{Kind: OperandObject, Object: arg.id}, nil

	case LiteralArgument:
		typ := slotType(spec, arg)
		if requiresObject(typ) {
			// Reference parameters take the literal as an object id.
			id, err := ParseAddress(arg.value)
			if err != nil {
				return Operand{}, err
			}
			return Operand{Kind: OperandObject, Object: id}, nil
		}
		tv, err := Validate(arg.value, typ)
		if err != nil {
			return Operand{}, err
		}
		return Operand{Kind: OperandPure, Pure: tv}, nil

	case ResultArgument:
		if arg.dangling {
			return Operand{}, ErrDanglingReference
		}
		if arg.command < 0 || arg.command >= current {
			return Operand{}, ErrForwardReference
		}
		index := arg.index
		switch count := results[arg.command]; {
		case count == 0:
			return Operand{}, ErrNoResult
		case count == 1:
			if index == NoResultIndex {
				index = 0
			}
			if index != 0 {
				return Operand{}, ErrResultIndexOutOfRange
			}
		default:
			if index == NoResultIndex {
				return Operand{}, ErrResultIndexRequired
			}
			if index < 0 || index >= count {
				return Operand{}, ErrResultIndexOutOfRange
			}
		}
		return Operand{Kind: OperandResult, Command: arg.command, Index: index}, nil

	case nil:
		return Operand{}, ErrMissingArgument

	default:
		return Operand{}, ErrMissingArgument
	}
}

func buildErrorKind(err error) BuildErrorKind {
	switch err {
	case ErrDanglingReference:
		return DanglingReference
	case ErrForwardReference, ErrNoResult, ErrResultIndexRequired, ErrResultIndexOutOfRange:
		return ForwardReference
	default:
		return InvalidArgument
	}
}

// BuildOption configures the Build operation.
type BuildOption func(*buildConfig)

// buildConfig holds configuration for Build.
type buildConfig struct {
	gasBudget   uint64
	maxCommands int
}

// DefaultGasBudget is the gas budget attached to a plan unless overridden.
const DefaultGasBudget = 50_000_000

// DefaultMaxCommands is the default command limit per block.
const DefaultMaxCommands = 1024

func defaultBuildConfig() *buildConfig {
	return &buildConfig{
		gasBudget:   DefaultGasBudget,
		maxCommands: DefaultMaxCommands,
	}
}

// WithGasBudget sets the plan's gas budget.
func WithGasBudget(budget uint64) BuildOption {
	return func(c *buildConfig) {
		c.gasBudget = budget
	}
}

// WithMaxCommands sets a maximum command limit for the build.
func WithMaxCommands(max int) BuildOption {
	return func(c *buildConfig) {
		c.maxCommands = max
	}
}
