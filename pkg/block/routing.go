// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package block

import (
	"strings"
)

type Bucket int

const (
	BucketComponent Bucket = iota
	BucketRoot
	BucketDescription
)

func (b Bucket) String() string {
	switch b {
	case BucketRoot:
		return "root"
	case BucketDescription:
		return "description"
	default:
		return "component"
	}
}

const (
	RootPermutations = "permutations"
	RootEvents       = "events"
	RootComponents   = "components"
	RootDescription  = "description"

	DescIdentifier = "identifier"
	DescStates     = "states"
	// DescProperties replaces DescStates before format version 1.20.20.
	DescProperties = "properties"
)

var rootKeys = []string{RootPermutations, RootEvents, RootComponents, RootDescription}

var descriptionKeys = []string{
	DescIdentifier,
	"menu_category",
	DescStates,
	"traits",
	"register_to_creative_menu",
	"is_experimental",
}

// Route classifies a property name by where it belongs in the block definition.
func Route(name string) Bucket {
	for _, key := range rootKeys {
		if key == name {
			return BucketRoot
		}
	}
	for _, key := range descriptionKeys {
		if key == name {
			return BucketDescription
		}
	}
	return BucketComponent
}

// Namespaced adds namespace to name unless it already has one.
func Namespaced(namespace, name string) string {
	if namespace == "" || strings.Contains(name, ":") {
		return name
	}
	return namespace + ":" + name
}
