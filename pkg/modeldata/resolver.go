// SPDX-License-Identifier: MPL-2.0

package modeldata

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// ErrConstantCycle is the sentinel error wrapped by ConstantCycleError.
var ErrConstantCycle = errors.New("constant cycle")

type (
	// Constants maps a constant name to the key it stands for. The value is
	// resolved again as a key, so it may be a literal or another name.
	Constants map[string]string

	// ConstantCycleError is returned when following constant values leads
	// back to a name already on the chain.
	ConstantCycleError struct {
		Chain []string
	}

	// Resolver resolves symbolic keys against an immutable constant table.
	// The zero value resolves with no constants.
	Resolver struct {
		constants Constants
	}
)

// Error implements the error interface.
func (e *ConstantCycleError) Error() string {
	return fmt.Sprintf("constant cycle: %s", strings.Join(e.Chain, " -> "))
}

// Unwrap returns ErrConstantCycle for errors.Is() compatibility.
func (e *ConstantCycleError) Unwrap() error { return ErrConstantCycle }

// NewResolver creates a Resolver over a copy of consts.
func NewResolver(consts Constants) (*Resolver, error) {
	return (&Resolver{}).With(consts)
}

// With returns a new Resolver whose table is r's table extended (and, for
// repeated names, overridden) by consts. r itself is left untouched.
func (r *Resolver) With(consts Constants) (*Resolver, error) {
	merged := make(Constants, len(r.constants)+len(consts))
	maps.Copy(merged, r.constants)
	maps.Copy(merged, consts)

	if err := checkCycles(merged); err != nil {
		return nil, err
	}
	return &Resolver{constants: merged}, nil
}

// Constant reports the value bound to name.
func (r *Resolver) Constant(name string) (string, bool) {
	v, ok := r.constants[name]
	return v, ok
}

// Len returns the number of constants known to r.
func (r *Resolver) Len() int {
	return len(r.constants)
}

// Resolve returns the identifier for key. Integer literals (see
// ParseLiteral) come back unchanged, even far outside [0, MaxModelData).
func (r *Resolver) Resolve(key string) ID {
	for {
		if id, ok := ParseLiteral(key); ok {
			return id
		}
		v, ok := r.constants[key]
		if !ok {
			return NewID(HashKey(key))
		}
		key = v
	}
}

// checkCycles walks every constant chain. A chain ends at a literal or at
// a name outside the table.
func checkCycles(consts Constants) error {
	done := make(map[string]bool, len(consts))
	for name := range consts {
		if done[name] {
			continue
		}
		onChain := map[string]bool{}
		var chain []string
		key := name
		for {
			if _, ok := ParseLiteral(key); ok {
				break
			}
			next, ok := consts[key]
			if !ok || done[key] {
				break
			}
			if onChain[key] {
				return &ConstantCycleError{Chain: append(chain, key)}
			}
			onChain[key] = true
			chain = append(chain, key)
			key = next
		}
		for _, n := range chain {
			done[n] = true
		}
	}
	return nil
}
