package main

import (
	"fmt"
	"log/slog"

	"github.com/heroiclabs/nakama-common/runtime"
)

// slogLogger lets the room log through slog when it runs outside Nakama.
type slogLogger struct {
	l      *slog.Logger
	fields map[string]interface{}
}

func newSlogLogger(l *slog.Logger) *slogLogger {
	return &slogLogger{l: l, fields: map[string]interface{}{}}
}

func (s *slogLogger) Debug(format string, v ...interface{}) { s.l.Debug(fmt.Sprintf(format, v...)) }
func (s *slogLogger) Info(format string, v ...interface{})  { s.l.Info(fmt.Sprintf(format, v...)) }
func (s *slogLogger) Warn(format string, v ...interface{})  { s.l.Warn(fmt.Sprintf(format, v...)) }
func (s *slogLogger) Error(format string, v ...interface{}) { s.l.Error(fmt.Sprintf(format, v...)) }

func (s *slogLogger) WithField(key string, v interface{}) runtime.Logger {
	return s.WithFields(map[string]interface{}{key: v})
}

func (s *slogLogger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(s.fields)+len(fields))
	args := make([]any, 0, 2*len(fields))
	for k, v := range s.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
		args = append(args, k, v)
	}
	return &slogLogger{l: s.l.With(args...), fields: merged}
}

func (s *slogLogger) Fields() map[string]interface{} {
	return s.fields
}

var _ runtime.Logger = (*slogLogger)(nil)
