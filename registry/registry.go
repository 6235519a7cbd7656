// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry collects every contract.Module this module ships,
// keyed by scheme ID in a flat namespace rather than any reserved
// address range.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/luxfi/phs/contract"
)

var (
	mu                sync.RWMutex
	registeredModules = make(map[string]contract.Module)
)

// Register adds a scheme module under its own ID. It is an error to
// register the same ID twice.
func Register(m contract.Module) error {
	mu.Lock()
	defer mu.Unlock()

	id := m.ID()
	if id == "" {
		return fmt.Errorf("registry: module has empty ID")
	}
	if _, exists := registeredModules[id]; exists {
		return fmt.Errorf("registry: id %q already registered", id)
	}
	registeredModules[id] = m
	return nil
}

// Lookup returns the module registered under id, if any.
func Lookup(id string) (contract.Module, bool) {
	mu.RLock()
	defer mu.RUnlock()
	m, ok := registeredModules[id]
	return m, ok
}

// Scheme is a convenience wrapper around Lookup that unwraps the
// contract.Scheme directly.
func Scheme(id string) (contract.Scheme, bool) {
	m, ok := Lookup(id)
	if !ok {
		return nil, false
	}
	return m.Scheme(), true
}

// IDs returns every registered scheme ID in deterministic (sorted)
// order, so iteration never depends on registration order.
func IDs() []string {
	mu.RLock()
	defer mu.RUnlock()
	ids := make([]string, 0, len(registeredModules))
	for id := range registeredModules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns every registered module in IDs() order.
func All() []contract.Module {
	ids := IDs()
	mu.RLock()
	defer mu.RUnlock()
	out := make([]contract.Module, 0, len(ids))
	for _, id := range ids {
		out = append(out, registeredModules[id])
	}
	return out
}
