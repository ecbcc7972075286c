// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package substitute resolves variables inside data model values.

Two forms are recognized: template strings ("{{name}}" placeholders inside
any string, object key or array element) and references (a string that is
entirely "$name", replaced by the referenced value itself). References are
always resolved before template strings, since a referenced value may carry
placeholders of its own.
*/
package substitute
