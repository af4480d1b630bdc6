package logsvc

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"schoolhub/core"
	"schoolhub/core/session"
)

// LogrusLogger is the console implementation of core.Logger.
type LogrusLogger struct {
	log *logrus.Logger
}

var _ core.Logger = (*LogrusLogger)(nil)

func NewLogrusLogger(debug bool) *LogrusLogger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return &LogrusLogger{log: log}
}

func (l *LogrusLogger) Enable(enabled bool) {
	if enabled {
		l.log.SetOutput(os.Stderr)
	} else {
		l.log.SetOutput(io.Discard)
	}
}

// expected args: error, map[string]interface{}, session.User
func (l *LogrusLogger) entry(args []interface{}) *logrus.Entry {
	entry := logrus.NewEntry(l.log)
	for _, arg := range args {
		switch v := arg.(type) {
		case session.User:
			entry = entry.WithFields(logrus.Fields{"userId": v.UserID, "username": v.Username})
		case map[string]interface{}:
			entry = entry.WithFields(v)
		case error:
			entry = entry.WithError(v)
		default:
			entry = entry.WithField("detail", v)
		}
	}
	return entry
}

func (l *LogrusLogger) Debug(msg string, args ...interface{}) { l.entry(args).Debug(msg) }
func (l *LogrusLogger) Info(msg string, args ...interface{})  { l.entry(args).Info(msg) }
func (l *LogrusLogger) Warn(msg string, args ...interface{})  { l.entry(args).Warn(msg) }
func (l *LogrusLogger) Error(msg string, args ...interface{}) { l.entry(args).Error(msg) }
func (l *LogrusLogger) Fatal(msg string, args ...interface{}) { l.entry(args).Fatal(msg) }
