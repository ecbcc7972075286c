// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package diag collects structured diagnostics (errors, warnings, notices)
reported while templates are expanded.

Every message carries the permutation path that was being processed. A Log
is safe for concurrent use and produces the end-of-run Summary.
*/
package diag
