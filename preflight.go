package ptb

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// preValidateObjects checks that every object id referenced anywhere in the
// block exists on the target network. One lookup is issued per distinct id,
// all concurrently, and every failure is collected before reporting: the
// caller gets a per-object error list, not the first failure.
//
// This is advisory defense in depth. A missing object would also fail the
// transaction build, but late and with an opaque message; failing here names
// the object and the network.
func preValidateObjects(ctx context.Context, client LedgerClient, network Network, commands []*Command) (map[Address]ObjectInfo, error) {
	ids := collectObjectIDs(commands)
	if len(ids) == 0 {
		return nil, nil
	}

	var (
		mu       sync.Mutex
		resolved = make(map[Address]ObjectInfo, len(ids))
		failed   = make(map[Address]*LookupError, len(ids))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			info, err := client.ResolveObject(gctx, id)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				failed[id] = &LookupError{ObjectID: id, Network: network, Err: err}
			case !info.Exists:
				failed[id] = &LookupError{ObjectID: id, Network: network, NotFound: true}
			default:
				resolved[id] = info
			}
			// Lookup failures are aggregated, not propagated, so the
			// remaining lookups are not cancelled.
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(failed) > 0 {
		agg := &LookupErrors{Errors: make([]*LookupError, 0, len(failed))}
		for _, id := range ids {
			if le, ok := failed[id]; ok {
				agg.Errors = append(agg.Errors, le)
			}
		}
		return nil, agg
	}
	return resolved, nil
}

// collectObjectIDs gathers every distinct object id the block references:
// explicit object arguments plus literals bound to object-shaped parameters.
// Order follows first appearance so error reports are deterministic.
func collectObjectIDs(commands []*Command) []Address {
	seen := make(map[Address]bool)
	var ids []Address

	add := func(id Address) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, cmd := range commands {
		for _, spec := range cmd.argSpecs() {
			switch arg := spec.arg.(type) {
			case ObjectArgument:
				add(arg.id)
			case LiteralArgument:
				if !requiresObject(slotType(spec, arg)) {
					continue
				}
				if id, err := ParseAddress(arg.value); err == nil {
					add(id)
				}
			}
		}
	}
	return ids
}

// firstOwnedObject returns the owner of the first object-typed argument in
// command order, for simulation sender inference. The second return is false
// when no owned object appears in the block.
func firstOwnedObject(commands []*Command, resolved map[Address]ObjectInfo) (Address, bool) {
	for _, cmd := range commands {
		for _, spec := range cmd.argSpecs() {
			var id Address
			switch arg := spec.arg.(type) {
			case ObjectArgument:
				id = arg.id
			case LiteralArgument:
				if !requiresObject(slotType(spec, arg)) {
					continue
				}
				parsed, err := ParseAddress(arg.value)
				if err != nil {
					continue
				}
				id = parsed
			default:
				continue
			}
			if info, ok := resolved[id]; ok && info.HasOwner {
				return info.Owner, true
			}
		}
	}
	return Address{}, false
}
