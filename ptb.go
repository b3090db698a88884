// Package ptb builds and executes Programmable Transaction Blocks (PTBs)
// for Move-based ledgers.
//
// A PTB batches an ordered sequence of ledger operations ("commands") into a
// single atomic transaction. Arguments to later commands may reference the
// outputs of earlier commands or shared transaction resources such as the gas
// coin. This library allows you to build blocks that:
//   - Chain MoveCall, SplitCoins, MergeCoins and TransferObjects commands
//   - Wire the result of one command into the arguments of another
//   - Validate and coerce every literal argument against its Move type
//   - Simulate or submit the assembled block against a ledger node
//
// # Basic Usage
//
// Create a block, add commands, and execute:
//
//	block, _ := ptb.NewBlock()
//
//	split := ptb.NewSplitCoins(ptb.Gas(), []ptb.Argument{
//	    ptb.LiteralU64("100"),
//	    ptb.LiteralU64("200"),
//	})
//	block.Add(split)
//
//	block.Add(ptb.NewTransferObjects(
//	    []ptb.Argument{ptb.ResultAt(0, 0)},
//	    ptb.Literal(recipient, ptb.TypeOf(ptb.KindAddress)),
//	))
//
//	engine := ptb.NewEngine(client, signer)
//	resp, err := engine.Execute(ctx, ptb.ExecuteRequest{
//	    Block:   block,
//	    Network: ptb.Testnet,
//	    Mode:    ptb.ModeAuto,
//	})
//
// # Argument Types
//
// Arguments in a block can be:
//
//   - Literals: scalar values coerced against a declared Move type at
//     validation time (created with Literal() and the typed helpers)
//
//   - Gas: the transaction's native gas coin
//
//   - Object references: explicit 32-byte object ids already on the ledger
//
//   - Result references: outputs of earlier commands in the same block,
//     created with Result() or ResultAt() for multi-output commands
//
// # Reference Rules
//
// A command may only reference commands at a strictly smaller position in the
// block. Edits that would break this rule (a reorder making a reference point
// forward, a reference to the command itself) are rejected at edit time.
// Deleting a command leaves downstream references dangling; dangling
// references are surfaced as blocking validation errors and are never
// silently rewired.
//
// # Execution
//
// The engine does not know ahead of time whether a targeted Move function is
// read-only ("view") or state-changing ("entry"). In ModeAuto it always
// simulates first: a simulation that succeeds and yields decodable return
// values is reported as a view call with a reserved digest marker and no real
// transaction is submitted; otherwise the block is signed and submitted for
// real. ModeSimulate and ModeExecute force one path or the other.
//
// Before any network mutation the engine checks that every referenced object
// id exists on the target network, issuing all lookups concurrently.
package ptb
