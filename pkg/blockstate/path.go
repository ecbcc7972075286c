// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package blockstate

import (
	"strings"
)

const (
	StepDefault  = "default"
	StepMaterial = "material"
)

// Step is one segment of a permutation path. A nil Title leaves the
// step out of the display title.
type Step struct {
	Key   string
	Title *string
	Type  string
}

// NewStep returns a default-typed step titled by its key.
func NewStep(key string) Step {
	title := key
	return Step{Key: key, Title: &title, Type: StepDefault}
}

func NewMaterialStep(key string) Step {
	return Step{Key: key, Type: StepMaterial}
}

func (s Step) WithTitle(title string) Step {
	s.Title = &title
	return s
}

func (s Step) WithoutTitle() Step {
	s.Title = nil
	return s
}

func (s Step) IsAnonymous() bool { return IsAnonymous(s.Key) }

type Path []Step

// Push returns a new path with step appended; p is not modified.
func (p Path) Push(step Step) Path {
	result := make(Path, 0, len(p)+1)
	result = append(result, p...)
	return append(result, step)
}

func (p Path) Last() (Step, bool) {
	if len(p) == 0 {
		return Step{}, false
	}
	return p[len(p)-1], true
}

// Keys lists every step key, anonymous ones included.
func (p Path) Keys() []string {
	var keys []string
	for _, step := range p {
		keys = append(keys, step.Key)
	}
	return keys
}

// NamedKeys lists the keys of non-anonymous steps.
func (p Path) NamedKeys() []string {
	var keys []string
	for _, step := range p {
		if !step.IsAnonymous() {
			keys = append(keys, step.Key)
		}
	}
	return keys
}

func (p Path) String() string { return strings.Join(p.Keys(), "/") }

// Name joins non-anonymous step keys with their type's separator.
func (p Path) Name(seps Separators) string {
	var parts []joinPart
	for _, step := range p {
		if !step.IsAnonymous() {
			parts = append(parts, joinPart{step.Key, step.Type})
		}
	}
	return join(parts, seps)
}

// Title joins step titles with their type's separator, skipping
// anonymous and untitled steps.
func (p Path) Title(seps Separators) string {
	var parts []joinPart
	for _, step := range p {
		if step.IsAnonymous() || step.Title == nil || *step.Title == "" {
			continue
		}
		parts = append(parts, joinPart{*step.Title, step.Type})
	}
	return join(parts, seps)
}

type joinPart struct {
	text string
	typ  string
}

func join(parts []joinPart, seps Separators) string {
	var result strings.Builder
	for i, part := range parts {
		if i == 0 {
			result.WriteString(part.text)
			continue
		}
		result.WriteString(seps.For(part.typ).wrap(part.text))
	}
	return result.String()
}
