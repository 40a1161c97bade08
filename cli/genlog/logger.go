// Package genlog writes generator log entries into a rotated log file.
package genlog

import (
	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerOpts describes the logger options.
type LoggerOpts struct {
	// Filename is the name of log file.
	Filename string
	// MaxSize is the maximum size in megabytes of the log file
	// before it gets rotated.
	MaxSize int
	// MaxBackups is the maximum number of old log files to retain.
	MaxBackups int
	// MaxAge is the maximum number of days to retain old log files
	// based on the timestamp encoded in their filename.
	MaxAge int
}

// Logger writes log entries as JSON lines into a rotated file.
type Logger struct {
	// ljLogger is an io.WriteCloser that writes to the specified filename.
	ljLogger *lumberjack.Logger
	// handler encodes entries into ljLogger.
	handler log.Handler
}

// NewLogger creates a new object of Logger.
func NewLogger(opts LoggerOpts) *Logger {
	ljLogger := &lumberjack.Logger{
		Filename:   opts.Filename,
		MaxSize:    opts.MaxSize,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAge,
		Compress:   false,
		LocalTime:  true,
	}
	return &Logger{ljLogger: ljLogger, handler: json.New(ljLogger)}
}

// Tee returns a log handler writing into both console and the log file.
func (logger *Logger) Tee(console log.Handler) log.Handler {
	return multi.New(console, logger.handler)
}

// Close implements io.Closer, and closes the current logfile.
func (logger *Logger) Close() error {
	return logger.ljLogger.Close()
}
