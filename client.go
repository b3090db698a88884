package ptb

import (
	"context"
)

// ObjectInfo is the result of resolving one object id on the target network.
type ObjectInfo struct {
	Exists bool

	// Owner is the owning address when the object is address-owned.
	Owner Address

	// HasOwner is false for shared and immutable objects.
	HasOwner bool

	Version uint64
}

// SimulateResult is the outcome of a side-effect-free execution.
type SimulateResult struct {
	Success      bool
	GasUsed      uint64
	ReturnValues []ReturnValue

	// Error carries the ledger's failure message verbatim when Success is
	// false.
	Error string
}

// ObjectChange describes one object created, mutated or deleted by a
// submitted transaction.
type ObjectChange struct {
	Kind       string
	ObjectID   Address
	ObjectType string
}

// SubmitResult is the outcome of a real signed submission.
type SubmitResult struct {
	Success       bool
	Digest        string
	GasUsed       uint64
	ObjectChanges []ObjectChange
	Error         string
}

// LedgerClient is the ledger node capability the engine consumes. The wire
// format and transport are the implementation's concern; timeouts are
// enforced at the transport layer, not here.
type LedgerClient interface {
	// ResolveObject looks up one object by id on the client's network.
	ResolveObject(ctx context.Context, id Address) (ObjectInfo, error)

	// BuildTransaction serializes a plan into unsigned transaction bytes,
	// materializing lazy object inputs along the way.
	BuildTransaction(ctx context.Context, plan *Plan) ([]byte, error)

	// Simulate executes the transaction bytes against current ledger state
	// without committing, bound to the given sender.
	Simulate(ctx context.Context, txBytes []byte, sender Address) (SimulateResult, error)

	// Submit executes the signed transaction for real.
	Submit(ctx context.Context, txBytes []byte, signature []byte) (SubmitResult, error)
}

// Signer is the account capability the engine consumes for real submissions
// and as the fallback simulation sender.
type Signer interface {
	Address() Address
	Sign(data []byte) ([]byte, error)
}
