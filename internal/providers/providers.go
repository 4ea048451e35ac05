package providers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/callwire/internal/calls"
	"github.com/danmuck/callwire/internal/providers/arith"
	"github.com/danmuck/callwire/internal/providers/kv"
	"github.com/danmuck/callwire/internal/providers/text"
)

var ErrUnknownProvider = errors.New("providers: unknown provider")

// Known lists the built-in provider ids.
func Known() []string {
	return []string{arith.ID, kv.ID, text.ID}
}

// New returns a fresh built-in provider by id.
func New(id string) (calls.Provider, error) {
	switch strings.TrimSpace(id) {
	case arith.ID:
		return arith.New(), nil
	case kv.ID:
		return kv.New(), nil
	case text.ID:
		return text.New(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, id)
	}
}

// BuildRegistry registers every function of the listed providers. "none"
// and blank entries are skipped; repeated ids register once.
func BuildRegistry(ids []string) (*calls.Registry, error) {
	reg := calls.NewRegistry()
	seen := make(map[string]struct{})
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" || id == "none" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		p, err := New(id)
		if err != nil {
			return nil, err
		}
		if err := reg.RegisterAll(p); err != nil {
			return nil, fmt.Errorf("provider %s: %w", id, err)
		}
	}
	return reg, nil
}
