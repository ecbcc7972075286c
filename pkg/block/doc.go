// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

// Package block compiles a leaf state into a Minecraft Bedrock block
// definition.
package block
