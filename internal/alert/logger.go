package alert

import (
	"log/slog"

	"github.com/go-co-op/gocron/v2"
)

var _ gocron.Logger = (*schedulerLogger)(nil)

// schedulerLogger routes gocron's own logs through slog.
type schedulerLogger struct {
	logger *slog.Logger
}

func newSchedulerLogger(logger *slog.Logger) *schedulerLogger {
	return &schedulerLogger{logger: logger.With(slog.String("component", "gocron"))}
}

func (l *schedulerLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *schedulerLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }
func (l *schedulerLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *schedulerLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
