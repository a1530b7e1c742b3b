// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package notify

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"

	"github.com/jcastanov/issuemap/internal/logging"
)

// loggerAdapter routes watermill's internal logging through the application
// logger so bus output shares the process log format.
type loggerAdapter struct {
	fields watermill.LogFields
}

// NewLoggerAdapter returns a watermill logger backed by the application
// logger.
func NewLoggerAdapter() watermill.LoggerAdapter {
	return &loggerAdapter{}
}

func (l *loggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	ev := logging.Error().Err(err)
	addFields(ev, l.fields, fields)
	ev.Msg(msg)
}

func (l *loggerAdapter) Info(msg string, fields watermill.LogFields) {
	ev := logging.Debug()
	addFields(ev, l.fields, fields)
	ev.Msg(msg)
}

func (l *loggerAdapter) Debug(msg string, fields watermill.LogFields) {
	ev := logging.Debug()
	addFields(ev, l.fields, fields)
	ev.Msg(msg)
}

func (l *loggerAdapter) Trace(msg string, fields watermill.LogFields) {
	ev := logging.Debug()
	addFields(ev, l.fields, fields)
	ev.Msg(msg)
}

func (l *loggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &loggerAdapter{fields: l.fields.Add(fields)}
}

func addFields(ev *zerolog.Event, base, extra watermill.LogFields) {
	for k, v := range base {
		ev.Interface(k, v)
	}
	for k, v := range extra {
		ev.Interface(k, v)
	}
}
