// Package logger provides the process-wide zap logger. Entries are rendered as
// GitHub Actions workflow commands so warnings and errors become annotations
// on the job.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level string
}

type lockedWriter struct {
	mu     sync.RWMutex
	writer io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.writer == nil {
		return len(p), nil
	}
	return l.writer.Write(p)
}

func (l *lockedWriter) Sync() error {
	return nil
}

var (
	sugarLogger  *zap.SugaredLogger
	baseLogger   *zap.Logger
	atomicLevel  zap.AtomicLevel
	once         sync.Once
	mu           sync.RWMutex
	stdoutSyncer = &lockedWriter{writer: os.Stdout}
)

func initLogger() {
	applyConfig(Config{Level: "info"})
}

func applyConfig(cfg Config) {
	mu.Lock()
	defer mu.Unlock()

	level := parseLevel(cfg.Level)

	if atomicLevel == (zap.AtomicLevel{}) {
		atomicLevel = zap.NewAtomicLevelAt(level)
	} else {
		atomicLevel.SetLevel(level)
	}

	core := zapcore.NewCore(newWorkflowEncoder(), zapcore.AddSync(stdoutSyncer), atomicLevel)

	baseLogger = zap.New(core)
	sugarLogger = baseLogger.Sugar()

	zap.ReplaceGlobals(baseLogger)
}

// Init sets up the global logger with cfg and returns it together with a
// cleanup function that must be deferred.
func Init(cfg Config) (*zap.SugaredLogger, func()) {
	initialized := false
	once.Do(func() {
		applyConfig(cfg)
		initialized = true
	})
	if !initialized {
		applyConfig(cfg)
	}

	return Logger(), cleanup
}

// Logger returns the global logger, initializing it at info level on first use.
func Logger() *zap.SugaredLogger {
	once.Do(initLogger)

	mu.RLock()
	defer mu.RUnlock()

	return sugarLogger
}

func cleanup() {
	mu.RLock()
	defer mu.RUnlock()

	if baseLogger != nil {
		if err := baseLogger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "error syncing logger: %v\n", err)
		}
	}
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ValidLevel reports whether level names a supported log level.
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	default:
		return false
	}
}

// SetLogLevel changes the log level without re-initializing the logger.
func SetLogLevel(level string) {
	once.Do(initLogger)

	mu.Lock()
	defer mu.Unlock()

	atomicLevel.SetLevel(parseLevel(level))
}

// ReplaceWriter swaps the writer used by the logger and returns the previous
// one (never nil; defaults to os.Stdout).
func ReplaceWriter(newOut io.Writer) (oldOut io.Writer) {
	if newOut == nil {
		newOut = os.Stdout
	}

	stdoutSyncer.mu.Lock()
	defer stdoutSyncer.mu.Unlock()

	oldOut = stdoutSyncer.writer
	if oldOut == nil {
		oldOut = os.Stdout
	}
	stdoutSyncer.writer = newOut
	return
}
