package kv

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/danmuck/callwire/internal/calls"
)

// ID is the provider identifier used in daemon configuration.
const ID = "kv"

// Provider is an in-memory key-value store. Its functions are exported as
// kv.put, kv.get, kv.delete and kv.list.
type Provider struct {
	mu    sync.RWMutex
	store map[string][]byte
}

func New() *Provider {
	return &Provider{store: make(map[string][]byte)}
}

func (p *Provider) Functions() []calls.Export {
	return calls.Declare(p, []calls.Export{
		{Name: "kv.put", Func: calls.Proc2(p.Put)},
		{Name: "kv.get", Func: calls.Func1(p.Get)},
		{Name: "kv.delete", Func: calls.Func1(p.Delete)},
		{Name: "kv.list", Func: calls.Func1(p.List)},
	})
}

// Put upserts key.
func (p *Provider) Put(key string, value []byte) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	p.mu.Lock()
	p.store[key] = stored
	p.mu.Unlock()
	return nil
}

func (p *Provider) Get(key string) ([]byte, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	p.mu.RLock()
	val, ok := p.store[key]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("missing key=%s", key)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// Delete removes key and reports whether it existed.
func (p *Provider) Delete(key string) (bool, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return false, err
	}
	p.mu.Lock()
	_, ok := p.store[key]
	delete(p.store, key)
	p.mu.Unlock()
	return ok, nil
}

// List returns sorted keys with the given prefix; an empty prefix lists all.
func (p *Provider) List(prefix string) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	p.mu.RLock()
	keys := make([]string, 0, len(p.store))
	for k := range p.store {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	p.mu.RUnlock()
	sort.Strings(keys)
	return keys, nil
}

func normalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("missing key")
	}
	return key, nil
}
