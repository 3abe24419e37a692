package davfs

import (
	"log/slog"
	"sync"
)

// LogTopic tags every record logged by sessions using the default logger.
const LogTopic = "davfs"

var (
	topicOnce   sync.Once
	topicLogger *slog.Logger
)

// defaultLogger returns the process-wide logger for the davfs topic. It is
// derived from slog.Default the first time a session needs it.
func defaultLogger() *slog.Logger {
	topicOnce.Do(func() {
		topicLogger = slog.Default().With("topic", LogTopic)
	})
	return topicLogger
}
