// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package substitute

import (
	"fmt"
	"strings"

	"carvel.dev/blockgen/pkg/orderedmap"
)

type CycleError struct {
	Chain []string
}

func (e CycleError) Error() string {
	return fmt.Sprintf("Expected variables to not reference each other in a cycle, but found: %s",
		strings.Join(e.Chain, " -> "))
}

// NestedVariables resolves variables defined in terms of other variables,
// mutating vars in place. Variables are resolved dependencies first.
// Variables taking part in a cycle are left as they are and a CycleError
// naming the first cycle found is returned once every other variable
// has been resolved.
func (s Substituter) NestedVariables(vars *orderedmap.Map) error {
	deps := map[string][]string{}
	vars.Iterate(func(name string, val interface{}) {
		seen := map[string]struct{}{}
		for _, ref := range append(s.ReferencedNames(val), s.Placeholders(val)...) {
			dep := s.dependencyName(vars, ref)
			if dep == "" {
				continue
			}
			if _, found := seen[dep]; !found {
				seen[dep] = struct{}{}
				deps[name] = append(deps[name], dep)
			}
		}
	})

	const (
		unvisited = iota
		visiting
		done
	)

	var (
		order    []string
		cyclic   = map[string]struct{}{}
		state    = map[string]int{}
		stack    []string
		firstErr *CycleError
	)

	var visit func(name string)
	visit = func(name string) {
		switch state[name] {
		case done:
			return
		case visiting:
			start := 0
			for i, item := range stack {
				if item == name {
					start = i
					break
				}
			}
			for _, item := range stack[start:] {
				cyclic[item] = struct{}{}
			}
			if firstErr == nil {
				chain := append(append([]string{}, stack[start:]...), name)
				firstErr = &CycleError{Chain: chain}
			}
			return
		}

		state[name] = visiting
		stack = append(stack, name)
		for _, dep := range deps[name] {
			visit(dep)
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		order = append(order, name)
	}

	for _, name := range vars.Keys() {
		visit(name)
	}

	for _, name := range order {
		if _, found := cyclic[name]; found {
			continue
		}
		val, _ := vars.Get(name)
		vars.Set(name, s.Resolve(val, vars))
	}

	if firstErr != nil {
		return *firstErr
	}
	return nil
}

// dependencyName maps a referenced name to the variable it reads.
func (s Substituter) dependencyName(vars *orderedmap.Map, ref string) string {
	if vars.Has(ref) {
		return ref
	}
	head := strings.SplitN(ref, ".", 2)[0]
	if vars.Has(head) {
		return head
	}
	return ""
}
