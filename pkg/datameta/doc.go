// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package datameta converts template documents (JSON, JSON with comments, YAML)
to and from blockgen's data model: *orderedmap.Map for objects,
[]interface{} for arrays, and string, int64, float64, bool or nil for scalars.

Key order is preserved on the way in and on the way out.
*/
package datameta
