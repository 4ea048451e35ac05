package calls

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/danmuck/callwire/internal/protocol/bytequeue"
	"github.com/rs/zerolog/log"
)

// Descriptor is one registered function. It is never mutated after
// registration.
type Descriptor struct {
	Name     string
	Receiver any
	Func     Func
}

// Registry maps call names to descriptors.
type Registry struct {
	mu    sync.RWMutex
	items map[string]Descriptor
}

// NewRegistry creates an empty function registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Descriptor)}
}

// Register stores fn under name. Registering a name twice fails with
// ErrFunctionExists.
func (r *Registry) Register(name string, receiver any, fn Func) error {
	desc, err := newDescriptor(name, receiver, fn)
	if err != nil {
		return err
	}
	return r.insert(desc)
}

// RegisterFrom registers the function receiver declares under name. It
// fails when receiver declares no such function or declares it more than
// once. Only exports owned by receiver's own type count.
func (r *Registry) RegisterFrom(name string, receiver Provider) error {
	if receiver == nil {
		return ErrNilProvider
	}
	var matches []Export
	for _, exp := range declared(receiver) {
		if exp.Name == name {
			matches = append(matches, exp)
		}
	}
	switch len(matches) {
	case 0:
		return fmt.Errorf("%w: %q on %T", ErrFunctionNotDeclared, name, receiver)
	case 1:
		return r.Register(name, receiver, matches[0].Func)
	default:
		return fmt.Errorf("%w: %q on %T (%d declarations)", ErrAmbiguousFunction, name, receiver, len(matches))
	}
}

// RegisterAll registers every function receiver declares under its declared
// name. Nothing is registered if any declaration is rejected.
func (r *Registry) RegisterAll(receiver Provider) error {
	if receiver == nil {
		return ErrNilProvider
	}
	exports := declared(receiver)
	descs := make([]Descriptor, 0, len(exports))
	seen := make(map[string]struct{}, len(exports))
	for _, exp := range exports {
		if _, ok := seen[exp.Name]; ok {
			return fmt.Errorf("%w: %q on %T", ErrAmbiguousFunction, exp.Name, receiver)
		}
		seen[exp.Name] = struct{}{}
		desc, err := newDescriptor(exp.Name, receiver, exp.Func)
		if err != nil {
			return err
		}
		descs = append(descs, desc)
	}
	return r.insert(descs...)
}

// declared filters receiver's exports to those whose owner has exactly
// receiver's dynamic type.
func declared(receiver Provider) []Export {
	want := reflect.TypeOf(receiver)
	exports := receiver.Functions()
	out := make([]Export, 0, len(exports))
	for _, exp := range exports {
		if exp.Owner != nil && reflect.TypeOf(exp.Owner) == want {
			out = append(out, exp)
		}
	}
	return out
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.items[name]
	return desc, ok
}

// Names returns registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptors returns all descriptors ordered by name.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Descriptor, 0, len(r.items))
	for _, desc := range r.items {
		list = append(list, desc)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *Registry) insert(descs ...Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, desc := range descs {
		if _, ok := r.items[desc.Name]; ok {
			return fmt.Errorf("%w: %q", ErrFunctionExists, desc.Name)
		}
	}
	for _, desc := range descs {
		r.items[desc.Name] = desc
		log.Debug().
			Str("function", desc.Name).
			Str("signature", desc.Func.Signature()).
			Str("receiver", fmt.Sprintf("%T", desc.Receiver)).
			Msg("function registered")
	}
	return nil
}

func newDescriptor(name string, receiver any, fn Func) (Descriptor, error) {
	if strings.TrimSpace(name) == "" {
		return Descriptor{}, ErrInvalidName
	}
	if err := fn.Validate(); err != nil {
		return Descriptor{}, fmt.Errorf("register %q: %w", name, err)
	}
	fn.Params = slices.Clone(fn.Params)
	if fn.Params == nil {
		fn.Params = []bytequeue.Type{}
	}
	return Descriptor{Name: name, Receiver: receiver, Func: fn}, nil
}
