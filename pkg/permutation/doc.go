// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package permutation walks a template tree and emits one leaf per
terminal permutation.

Every node is classified, merged onto a copy of its parent's state and
then either descended into (when it declares child variants) or
compiled. Leaves are expanded by their materials, given their presets
and compiled into block definitions.

Failures are contained: an invalid node prunes its own subtree, and a
leaf that fails to compile produces nothing. Both are reported with the
permutation path as context.
*/
package permutation
