package ptb

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Mode selects the execution path.
type Mode string

const (
	// ModeSimulate executes the block side-effect-free and never submits.
	ModeSimulate Mode = "simulate"

	// ModeAuto simulates first and falls back to a real signed submission
	// when the simulation shows the block is state-changing. This is the
	// default.
	ModeAuto Mode = "auto"

	// ModeExecute submits the block for real without simulating first.
	ModeExecute Mode = "execute"
)

// AttemptState is one position of the execution state machine.
type AttemptState uint8

const (
	// StateIdle is the starting position before any work.
	StateIdle AttemptState = iota

	// StateValidating runs argument validation and the concurrent object
	// pre-flight. No network mutation has occurred.
	StateValidating

	// StateBuilding lowers the block and serializes transaction bytes.
	StateBuilding

	// StateSimulating runs the side-effect-free execution.
	StateSimulating

	// StateSubmitting performs the real signed execution. Once entered, the
	// attempt can no longer be cancelled.
	StateSubmitting

	// StateDecoded is the terminal success state for view calls answered by
	// simulation alone.
	StateDecoded

	// StateCompleted is the terminal success state for submitted (or
	// simulate-only) executions.
	StateCompleted

	// StateFailed is the terminal failure state.
	StateFailed
)

// String returns the state name.
func (s AttemptState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateValidating:
		return "Validating"
	case StateBuilding:
		return "Building"
	case StateSimulating:
		return "Simulating"
	case StateSubmitting:
		return "Submitting"
	case StateDecoded:
		return "Decoded"
	case StateCompleted:
		return "Completed"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// ExecuteRequest describes one execution attempt.
type ExecuteRequest struct {
	Block   *Block
	Network Network

	// Mode defaults to ModeAuto when empty.
	Mode Mode

	// Sender optionally pins the simulation sender. When nil the engine
	// infers one from the owner of the first object-typed argument, falling
	// back to the configured signer's address.
	Sender *Address
}

// ExecuteResponse is the immutable outcome of one execution attempt.
type ExecuteResponse struct {
	Success           bool
	State             AttemptState
	TransactionDigest string
	GasUsed           uint64
	ReturnValues      []DecodedValue
	ObjectChanges     []ObjectChange
	Err               error
}

// Engine drives execution attempts: validate, build, then simulate and/or
// submit. One attempt runs at a time per call; attempts for different blocks
// share no mutable state.
type Engine struct {
	client    LedgerClient
	signer    Signer
	log       logrus.FieldLogger
	buildOpts []BuildOption
}

// NewEngine creates an engine over a ledger client. The signer may be nil
// for a simulate-only engine; real submissions then fail with ErrNoSigner.
func NewEngine(client LedgerClient, signer Signer, opts ...EngineOption) *Engine {
	e := &Engine{
		client: client,
		signer: signer,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// attempt tracks one execution's position in the state machine. The command
// snapshot is frozen at creation: later block edits do not affect an
// in-flight attempt.
type attempt struct {
	commands []*Command
	network  Network
	mode     Mode
	state    AttemptState
	log      logrus.FieldLogger
}

func (a *attempt) transition(to AttemptState) {
	a.log.WithFields(logrus.Fields{
		"from": a.state.String(),
		"to":   to.String(),
	}).Debug("execution state transition")
	a.state = to
}

// Execute runs the block through the state machine. The response always
// carries the terminal state; for failures Err is set and the same error is
// returned.
func (e *Engine) Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResponse, error) {
	if req.Block == nil || req.Block.Len() == 0 {
		return &ExecuteResponse{State: StateFailed, Err: ErrEmptyBlock}, ErrEmptyBlock
	}

	mode := req.Mode
	if mode == "" {
		mode = ModeAuto
	}

	a := &attempt{
		commands: req.Block.snapshot(),
		network:  req.Network,
		mode:     mode,
		state:    StateIdle,
		log: e.log.WithFields(logrus.Fields{
			"network":  string(req.Network),
			"mode":     string(mode),
			"commands": req.Block.Len(),
		}),
	}

	// Validating: local argument validation and the object pre-flight run
	// concurrently; either failure is terminal before any mutation.
	a.transition(StateValidating)
	resolved, err := e.validate(ctx, a)
	if err != nil {
		return a.fail(err)
	}

	if err := ctx.Err(); err != nil {
		return a.fail(err)
	}

	// Building.
	a.transition(StateBuilding)
	plan, err := Build(a.commands, e.buildOpts...)
	if err != nil {
		return a.fail(err)
	}
	txBytes, err := e.client.BuildTransaction(ctx, plan)
	if err != nil {
		return a.fail(err)
	}

	if err := ctx.Err(); err != nil {
		return a.fail(err)
	}

	if mode == ModeExecute {
		return e.submit(ctx, a, txBytes)
	}
	return e.simulate(ctx, a, req, resolved, txBytes)
}

func (e *Engine) validate(ctx context.Context, a *attempt) (map[Address]ObjectInfo, error) {
	type preflightResult struct {
		resolved map[Address]ObjectInfo
		err      error
	}
	ch := make(chan preflightResult, 1)
	go func() {
		resolved, err := preValidateObjects(ctx, e.client, a.network, a.commands)
		ch <- preflightResult{resolved, err}
	}()

	verr := validateAll(a.commands)
	pf := <-ch

	if verr != nil {
		return nil, verr
	}
	if pf.err != nil {
		return nil, pf.err
	}
	return pf.resolved, nil
}

// simulate runs the side-effect-free execution (and the single documented
// sender-fallback retry), classifies the outcome, and either reports a view
// result or falls through to a real submission.
func (e *Engine) simulate(ctx context.Context, a *attempt, req ExecuteRequest, resolved map[Address]ObjectInfo, txBytes []byte) (*ExecuteResponse, error) {
	a.transition(StateSimulating)

	sender, inferred := e.resolveSender(a, req, resolved)

	res, simErr := e.simulateOnce(ctx, txBytes, sender)

	// The one automatic retry in the system: a deserialization failure under
	// an inferred sender is retried exactly once with the default signer's
	// address. A sender the caller pinned explicitly is never overridden, and
	// a second failure is terminal for the simulate path.
	if simErr != nil && simErr.IsDeserialization() && inferred {
		fallback := e.signer.Address()
		a.log.WithFields(logrus.Fields{
			"inferred": sender.Hex(),
			"fallback": fallback.Hex(),
		}).Warn("simulation hit deserialization error, retrying with default signer")
		res, simErr = e.simulateOnce(ctx, txBytes, fallback)
	}

	if simErr != nil {
		// A deserialization failure is terminal once the retry budget is
		// spent: it is not the shape of a state-changing function, so no
		// submission fallback applies.
		if a.mode == ModeSimulate || simErr.IsDeserialization() {
			return a.fail(simErr)
		}
		// The simulator objecting to a state-changing block is the expected
		// shape of an entry function; fall through to a real execution.
		a.log.WithField("error", simErr.Message).Debug("simulation rejected, submitting for real")
		return e.submit(ctx, a, txBytes)
	}

	decoded := DecodeReturnValues(res.ReturnValues)
	if len(decoded) > 0 {
		// Decodable return values classify the call as a view function: the
		// simulated result is the answer and nothing is submitted.
		a.transition(StateDecoded)
		return &ExecuteResponse{
			Success:           true,
			State:             StateDecoded,
			TransactionDigest: SimulatedDigest,
			GasUsed:           res.GasUsed,
			ReturnValues:      decoded,
		}, nil
	}

	if a.mode == ModeSimulate {
		a.transition(StateCompleted)
		return &ExecuteResponse{
			Success:           true,
			State:             StateCompleted,
			TransactionDigest: SimulatedDigest,
			GasUsed:           res.GasUsed,
		}, nil
	}

	// Simulation succeeded but produced nothing to read back: treat the
	// block as state-changing and submit it.
	return e.submit(ctx, a, txBytes)
}

func (e *Engine) simulateOnce(ctx context.Context, txBytes []byte, sender Address) (SimulateResult, *SimulationError) {
	res, err := e.client.Simulate(ctx, txBytes, sender)
	if err != nil {
		return SimulateResult{}, &SimulationError{Sender: sender, Message: err.Error()}
	}
	if !res.Success {
		return SimulateResult{}, &SimulationError{Sender: sender, Message: res.Error}
	}
	return res, nil
}

// resolveSender picks the simulation sender: the caller's explicit choice,
// else the owner of the first object-typed argument so owner-gated functions
// simulate realistically, else the default signer's address. The second
// return reports whether the sender was inferred from object ownership and
// differs from the default signer; only then is the fallback retry armed.
func (e *Engine) resolveSender(a *attempt, req ExecuteRequest, resolved map[Address]ObjectInfo) (Address, bool) {
	var defaultAddr Address
	if e.signer != nil {
		defaultAddr = e.signer.Address()
	}

	if req.Sender != nil {
		return *req.Sender, false
	}
	if owner, ok := firstOwnedObject(a.commands, resolved); ok {
		return owner, e.signer != nil && owner != defaultAddr
	}
	return defaultAddr, false
}

// submit performs the real signed execution. Once the signed call has been
// issued the attempt is final regardless of the caller's context.
func (e *Engine) submit(ctx context.Context, a *attempt, txBytes []byte) (*ExecuteResponse, error) {
	if err := ctx.Err(); err != nil {
		return a.fail(err)
	}
	if e.signer == nil {
		return a.fail(ErrNoSigner)
	}

	a.transition(StateSubmitting)

	sig, err := e.signer.Sign(txBytes)
	if err != nil {
		return a.fail(err)
	}

	res, err := e.client.Submit(ctx, txBytes, sig)
	if err != nil {
		return a.fail(&SubmissionError{Message: err.Error()})
	}
	if !res.Success {
		return a.fail(&SubmissionError{Digest: res.Digest, Message: res.Error})
	}

	a.transition(StateCompleted)
	return &ExecuteResponse{
		Success:           true,
		State:             StateCompleted,
		TransactionDigest: res.Digest,
		GasUsed:           res.GasUsed,
		ObjectChanges:     res.ObjectChanges,
	}, nil
}

func (a *attempt) fail(err error) (*ExecuteResponse, error) {
	a.transition(StateFailed)
	a.log.WithField("error", err.Error()).Debug("execution attempt failed")
	return &ExecuteResponse{State: StateFailed, Err: err}, err
}
