package ptb

import (
	"errors"
	"math/big"
	"testing"
)

func TestBuildSplitTransferScenario(t *testing.T) {
	// SplitCoins(gas, [100, 200]) followed by
	// TransferObjects([Result(0)[0]], recipient).
	b, _ := NewBlock()
	if err := b.Add(testSplit("100", "200")); err != nil {
		t.Fatal(err)
	}
	if err := b.Add(testTransfer(ResultAt(0, 0))); err != nil {
		t.Fatal(err)
	}

	plan, err := Build(b.Commands())
	if err != nil {
		t.Fatalf("Expected scenario to build, got %v", err)
	}
	if len(plan.Instructions) != 2 {
		t.Fatalf("Expected 2 instructions, got %d", len(plan.Instructions))
	}

	split := plan.Instructions[0]
	if split.Kind != SplitCoins || split.Results != 2 {
		t.Errorf("Expected split with 2 results, got %+v", split)
	}
	if split.Operands[0].Kind != OperandGas {
		t.Error("Expected gas operand for the split coin")
	}
	if split.Operands[1].Kind != OperandPure {
		t.Error("Expected pure operand for the first amount")
	}
	if split.Operands[1].Pure.Value.(*big.Int).Int64() != 100 {
		t.Errorf("Expected coerced amount 100, got %v", split.Operands[1].Pure.Value)
	}

	transfer := plan.Instructions[1]
	if transfer.Operands[0].Kind != OperandResult {
		t.Fatal("Expected result operand for the transferred object")
	}
	if transfer.Operands[0].Command != 0 || transfer.Operands[0].Index != 0 {
		t.Errorf("Expected handle (0, 0), got (%d, %d)",
			transfer.Operands[0].Command, transfer.Operands[0].Index)
	}
	if transfer.Operands[1].Kind != OperandPure {
		t.Error("Expected pure operand for the recipient address")
	}
}

func TestBuildResultIndexBounds(t *testing.T) {
	// Only indices 0 and 1 exist from a two-amount split. Block edits catch
	// this, but Build accepts raw command slices and must re-check.
	commands := []*Command{
		testSplit("100", "200"),
		testTransfer(ResultAt(0, 2)),
	}
	_, err := Build(commands)
	if !errors.Is(err, ErrResultIndexOutOfRange) {
		t.Errorf("Expected ErrResultIndexOutOfRange, got %v", err)
	}
}

func TestBuildArity(t *testing.T) {
	target := MustParseTarget("0x2::pay::split_and_keep")

	t.Run("argument count must match declared parameters", func(t *testing.T) {
		cmd := NewMoveCall(target,
			[]MoveType{ParseMoveType("&mut 0x2::coin::Coin<0x2::iota::IOTA>"), TypeOf(KindU64)},
			[]Argument{Gas()}, // one argument, two parameters
		)
		_, err := Build([]*Command{cmd})
		var berr *BuildError
		if !errors.As(err, &berr) || berr.Kind != ArityMismatch {
			t.Fatalf("Expected ArityMismatch, got %v", err)
		}
		var aerr *ArityError
		if !errors.As(err, &aerr) || aerr.Want != 2 || aerr.Got != 1 {
			t.Errorf("Expected want=2 got=1, got %+v", aerr)
		}
	})

	t.Run("trailing tx context parameter is excluded from arity", func(t *testing.T) {
		cmd := NewMoveCall(target,
			[]MoveType{
				TypeOf(KindU64),
				ParseMoveType("&mut 0x2::tx_context::TxContext"),
			},
			[]Argument{LiteralU64("7")},
		)
		plan, err := Build([]*Command{cmd})
		if err != nil {
			t.Fatalf("Expected context parameter to be excluded, got %v", err)
		}
		if len(plan.Instructions[0].Operands) != 1 {
			t.Errorf("Expected 1 operand, got %d", len(plan.Instructions[0].Operands))
		}
	})
}

func TestBuildOperandResolution(t *testing.T) {
	objID := MustParseAddress(testAddrHex)

	t.Run("explicit object becomes a lazy object input", func(t *testing.T) {
		cmd := NewMergeCoins(Object(objID), []Argument{Object(objID)})
		plan, err := Build([]*Command{cmd})
		if err != nil {
			t.Fatal(err)
		}
		op := plan.Instructions[0].Operands[0]
		if op.Kind != OperandObject || op.Object != objID {
			t.Errorf("Expected object operand %s, got %+v", objID, op)
		}
	})

	t.Run("object-id literal for a reference parameter becomes an object input", func(t *testing.T) {
		cmd := NewMoveCall(MustParseTarget("0x2::coin::value"),
			[]MoveType{ParseMoveType("&0x2::coin::Coin<0x2::iota::IOTA>")},
			[]Argument{Literal(testAddrHex, TypeOf(KindString))},
		)
		plan, err := Build([]*Command{cmd})
		if err != nil {
			t.Fatal(err)
		}
		op := plan.Instructions[0].Operands[0]
		if op.Kind != OperandObject || op.Object != objID {
			t.Errorf("Expected reference literal lowered to object input, got %+v", op)
		}
	})

	t.Run("invalid literal aborts the whole build", func(t *testing.T) {
		commands := []*Command{
			testSplit("100"),
			NewSplitCoins(Gas(), []Argument{LiteralU64("not-a-number")}),
		}
		_, err := Build(commands)
		var berr *BuildError
		if !errors.As(err, &berr) {
			t.Fatalf("Expected *BuildError, got %v", err)
		}
		if berr.Kind != InvalidArgument || berr.CommandIndex != 1 {
			t.Errorf("Expected InvalidArgument at command 1, got %+v", berr)
		}
	})

	t.Run("dangling reference aborts the build", func(t *testing.T) {
		b, _ := NewBlock()
		_ = b.Add(testSplit("1"))
		_ = b.Add(testTransfer(ResultAt(0, 0)))
		_ = b.Remove(0)

		_, err := Build(b.Commands())
		var berr *BuildError
		if !errors.As(err, &berr) || berr.Kind != DanglingReference {
			t.Errorf("Expected DanglingReference, got %v", err)
		}
	})

	t.Run("unset slot aborts the build", func(t *testing.T) {
		_, err := Build([]*Command{testMoveCall(1)})
		if !errors.Is(err, ErrMissingArgument) {
			t.Errorf("Expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestBuildOptions(t *testing.T) {
	t.Run("empty block", func(t *testing.T) {
		if _, err := Build(nil); !errors.Is(err, ErrEmptyBlock) {
			t.Errorf("Expected ErrEmptyBlock, got %v", err)
		}
	})

	t.Run("gas budget default and override", func(t *testing.T) {
		plan, err := Build([]*Command{testSplit("1")})
		if err != nil {
			t.Fatal(err)
		}
		if plan.GasBudget != DefaultGasBudget {
			t.Errorf("Expected default budget %d, got %d", DefaultGasBudget, plan.GasBudget)
		}

		plan, err = Build([]*Command{testSplit("1")}, WithGasBudget(123))
		if err != nil {
			t.Fatal(err)
		}
		if plan.GasBudget != 123 {
			t.Errorf("Expected budget 123, got %d", plan.GasBudget)
		}
	})

	t.Run("command limit", func(t *testing.T) {
		commands := []*Command{testSplit("1"), testSplit("2")}
		if _, err := Build(commands, WithMaxCommands(1)); !errors.Is(err, ErrTooManyCommands) {
			t.Errorf("Expected ErrTooManyCommands, got %v", err)
		}
	})
}
