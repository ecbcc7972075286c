// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package permutation

import (
	"sync"

	"carvel.dev/blockgen/pkg/orderedmap"
)

// Leaf is one compiled permutation. Data is not modified after it has
// been emitted.
type Leaf struct {
	Identifier string
	// Path lists the leaf's named permutation keys, root first.
	Path  []string
	Title string
	Data  *orderedmap.Map
}

type Sink interface {
	Emit(Leaf) error
}

type SinkFunc func(Leaf) error

func (f SinkFunc) Emit(leaf Leaf) error { return f(leaf) }

// Collector is a Sink keeping leaves in emission order.
type Collector struct {
	lock   sync.Mutex
	leaves []Leaf
}

var _ Sink = &Collector{}

func (c *Collector) Emit(leaf Leaf) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.leaves = append(c.leaves, leaf)
	return nil
}

func (c *Collector) Leaves() []Leaf {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]Leaf(nil), c.leaves...)
}
