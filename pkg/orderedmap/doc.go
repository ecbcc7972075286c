// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package orderedmap provides a map implementation where the order of keys is
maintained (unlike the native Go map).

Template authors declare variants in a meaningful order; that order decides
how permutations are walked and how generated records are laid out, so every
object in blockgen's data model is a *Map.
*/
package orderedmap
