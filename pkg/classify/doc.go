// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package classify splits a template object into its categories by looking at
each key's prefix: directives ("@export"), variables ("$color"), child
variants ("/stripped"), static values ("!minecraft:geometry"), tags ("#wood")
and plain properties (everything else).

Classification is a pure function of the object and the prefix table. It
never resolves values.
*/
package classify
