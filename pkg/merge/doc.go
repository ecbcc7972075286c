// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package merge implements the structural merge used everywhere data is
layered: parent state onto child state, preset templates onto each other,
material permutations onto material instance maps.

Objects recurse, arrays concatenate (or are replaced when OverwriteArrays is
set), and scalars always overwrite. An array meeting an object under the same
key is a TypeMismatchError.
*/
package merge
