// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

// Package blockstate holds the state accumulated while walking a
// permutation tree and the permutation path naming rules.
package blockstate
