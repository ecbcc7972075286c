// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package version

var (
	// Version is set via ldflags at build time
	Version = "develop"
)
