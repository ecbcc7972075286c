// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package datameta

import (
	"bytes"
	"encoding/json"
)

type JSONPrinter struct {
	indent string
}

func NewJSONPrinter() JSONPrinter { return JSONPrinter{"  "} }

func NewCompactJSONPrinter() JSONPrinter { return JSONPrinter{} }

// Print renders val with a trailing newline. HTML characters are not escaped.
func (p JSONPrinter) Print(val interface{}) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if len(p.indent) > 0 {
		enc.SetIndent("", p.indent)
	}

	err := enc.Encode(val)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
