// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package diag

import (
	"fmt"
)

// Reporter reports messages to a Sink under a fixed context path.
type Reporter struct {
	sink    Sink
	context []string
}

func NewReporter(sink Sink) Reporter {
	if sink == nil {
		sink = Discard
	}
	return Reporter{sink: sink}
}

// With returns a Reporter whose context is extended by segments.
// The receiver is not modified.
func (r Reporter) With(segments ...string) Reporter {
	context := make([]string, 0, len(r.context)+len(segments))
	context = append(context, r.context...)
	context = append(context, segments...)
	return Reporter{sink: r.sink, context: context}
}

func (r Reporter) Context() []string { return append([]string(nil), r.context...) }

func (r Reporter) Report(level Level, msg string, data interface{}) {
	if r.sink == nil {
		return
	}
	r.sink.Report(Message{
		Level:   level,
		Message: msg,
		Context: r.Context(),
		Data:    data,
	})
}

func (r Reporter) Errorf(format string, args ...interface{}) {
	r.Report(LevelError, fmt.Sprintf(format, args...), nil)
}

func (r Reporter) Warnf(format string, args ...interface{}) {
	r.Report(LevelWarn, fmt.Sprintf(format, args...), nil)
}

func (r Reporter) Noticef(format string, args ...interface{}) {
	r.Report(LevelNotice, fmt.Sprintf(format, args...), nil)
}

func (r Reporter) Error(err error) {
	r.Report(LevelError, err.Error(), err)
}
