// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"carvel.dev/blockgen/pkg/diag"
	"github.com/charmbracelet/lipgloss"
)

var levelStyles = map[diag.Level]lipgloss.Style{
	diag.LevelError:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	diag.LevelWarn:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
	diag.LevelNotice: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
}

var contextStyle = lipgloss.NewStyle().Faint(true)

// DiagnosticSink prints diagnostics as they are reported.
type DiagnosticSink struct {
	ui UI
}

var _ diag.Sink = DiagnosticSink{}

func NewDiagnosticSink(ui UI) DiagnosticSink { return DiagnosticSink{ui} }

func (s DiagnosticSink) Report(msg diag.Message) {
	s.ui.Warnf("%s\n", FormatMessage(msg, s.ui.Styled()))
}

// FormatMessage renders msg like diag.Message.String, with the level
// and context styled when styled is set.
func FormatMessage(msg diag.Message, styled bool) string {
	if !styled {
		return msg.String()
	}

	label := msg.Level.String() + ":"
	if style, found := levelStyles[msg.Level]; found {
		label = style.Render(label)
	}
	if len(msg.Context) == 0 {
		return label + " " + msg.Message
	}
	return label + " " + contextStyle.Render("["+msg.ContextString()+"]") + " " + msg.Message
}
