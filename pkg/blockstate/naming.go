// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package blockstate

import (
	"fmt"
	"regexp"
)

var (
	rootNameRegexp  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	childNameRegexp = regexp.MustCompile(`^[a-z0-9_]+$`)
	anonymousRegexp = regexp.MustCompile(`^-+$`)
)

// IsAnonymous reports whether key is an anonymous branch marker ("-", "--", ...).
func IsAnonymous(key string) bool { return anonymousRegexp.MatchString(key) }

type NamingError struct {
	Key    string
	Path   string
	Reason string
}

func (e NamingError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("Invalid permutation name '%s': %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("Invalid permutation name '%s' under '%s': %s", e.Key, e.Path, e.Reason)
}

// ValidateKey checks key against the root or child permutation name grammar.
func ValidateKey(key string, parent Path) error {
	if len(parent) == 0 {
		if !rootNameRegexp.MatchString(key) {
			return NamingError{Key: key, Reason: "Expected root name to match " + rootNameRegexp.String()}
		}
		return nil
	}
	if IsAnonymous(key) {
		return nil
	}
	if !childNameRegexp.MatchString(key) {
		return NamingError{Key: key, Path: parent.String(),
			Reason: fmt.Sprintf("Expected name to match %s or be an anonymous branch marker (%s)",
				childNameRegexp, anonymousRegexp)}
	}
	return nil
}

// ValidateLeaf rejects anonymous branch markers in leaf position.
func ValidateLeaf(path Path) error {
	last, ok := path.Last()
	if ok && last.IsAnonymous() {
		return NamingError{Key: last.Key, Path: path[:len(path)-1].String(),
			Reason: "Expected anonymous branch to have child permutations"}
	}
	return nil
}
