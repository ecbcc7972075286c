// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package ui_test

import (
	"bytes"
	"testing"

	"carvel.dev/blockgen/pkg/cmd/ui"
	"carvel.dev/blockgen/pkg/diag"
	"github.com/stretchr/testify/assert"
)

func TestDiagnosticSink(t *testing.T) {
	var stdout, stderr bytes.Buffer
	tty := ui.NewCustomWriterTTY(false, &stdout, &stderr)

	rep := diag.NewReporter(diag.NewForwardingLog(ui.NewDiagnosticSink(tty))).With("oak.json")
	rep.With("oak").Warnf("Material '%s' has no default '*' instance", "bark")
	rep.Noticef("done")

	assert.Empty(t, stdout.String())
	assert.Equal(t, "warn: [oak.json/oak] Material 'bark' has no default '*' instance\nnotice: [oak.json] done\n", stderr.String())
}

func TestFormatMessageStyled(t *testing.T) {
	msg := diag.Message{Level: diag.LevelError, Message: "broken", Context: []string{"a"}}
	assert.Equal(t, "error: [a] broken", ui.FormatMessage(msg, false))

	styled := ui.FormatMessage(msg, true)
	assert.Contains(t, styled, "broken")
	assert.Contains(t, styled, "error:")
}

func TestDebugOutput(t *testing.T) {
	var stderr bytes.Buffer
	ui.NewCustomWriterTTY(false, nil, &stderr).Debugf("hidden\n")
	assert.Empty(t, stderr.String())

	tty := ui.NewCustomWriterTTY(true, nil, &stderr)
	tty.Debugf("shown\n")
	_, _ = tty.DebugWriter().Write([]byte("raw\n"))
	assert.Equal(t, "shown\nraw\n", stderr.String())
}
