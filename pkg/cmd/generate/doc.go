// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package generate implements the "generate" command: load configuration,
expand every template file into blocks and write them out.
*/
package generate
