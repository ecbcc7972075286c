// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package magic parses and evaluates magic expressions.

A magic expression names a parameter ("%name") or a block variable
("$name"), optionally followed by a nested lookup (".key" or a dynamic
".[%other::value]") and/or a metadata query ("::keys", "::min", ...).

	%axis                  value of parameter axis
	%axis.x                key x of parameter axis
	%faces::key_list       'up', 'down', ... (Molang literals)
	%size::max             largest value of parameter size
	%a.[%b::value]         key of a named by the current value of b
	$wood                  value of block variable wood

A string that is exactly one expression evaluates to the value itself;
expressions embedded in longer strings are replaced by their string form
when they name a defined parameter or variable, so plain text like "50%off"
survives unchanged.
*/
package magic
