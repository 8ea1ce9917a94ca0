package app

import "github.com/rs/zerolog"

// LogNotifier routes user-facing messages to the structured log.
type LogNotifier struct {
	L zerolog.Logger
}

func (n LogNotifier) Success(msg string) { n.L.Info().Str("toast", "success").Msg(msg) }
func (n LogNotifier) Error(msg string)   { n.L.Warn().Str("toast", "error").Msg(msg) }

// Toasts records messages in order. Handy for tests and scripted runs.
type Toasts struct {
	Successes []string
	Errors    []string
}

func (t *Toasts) Success(msg string) { t.Successes = append(t.Successes, msg) }
func (t *Toasts) Error(msg string)   { t.Errors = append(t.Errors, msg) }
