// Package logging wires the node's structured logger: logrus for
// leveled, field-keyed output, optionally fanned out to Sentry through
// logrus_sentry when a DSN is configured.
package logging

import (
	"os"

	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
)

// Config controls logger construction.
type Config struct {
	Level     string // one of logrus's level strings, e.g. "info", "debug"
	JSON      bool
	SentryDSN string
}

// New builds a *logrus.Logger per cfg. A bad SentryDSN degrades to
// DSN-less logging rather than failing node startup over an optional
// collaborator.
func New(cfg Config) *logrus.Logger {
	logger := logrus.New()
	logger.Out = os.Stdout

	if cfg.JSON {
		logger.Formatter = &logrus.JSONFormatter{}
	} else {
		logger.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Level = level

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, []logrus.Level{
			logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel,
		})
		if err == nil {
			logger.Hooks.Add(hook)
		} else {
			logger.WithError(err).Warn("sentry hook disabled")
		}
	}

	return logger
}

// WorkflowFields returns the field set every mining workflow log line
// carries, so coordinator/cross-validator/replication logs can be
// correlated by address across a node's log stream.
func WorkflowFields(address, state string) logrus.Fields {
	return logrus.Fields{"address": address, "state": state}
}
