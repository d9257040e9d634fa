// Package logging provides config-driven categorized file logging for the
// tracker. Logs are written to <state dir>/logs/ with one file per category.
// Nothing is written unless logging.debug_mode is set, so the terminal UI is
// never disturbed by log output.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"sponsortracker/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot   Category = "boot"   // Startup, config loading
	CategoryAPI    Category = "api"    // REST calls to the tracker backend
	CategoryView   Category = "view"   // Table view state transitions
	CategorySync   Category = "sync"   // Sync trigger
	CategoryConfig Category = "config" // Config file watching
	CategoryExport Category = "export" // Full listing export
)

// Logger writes printf-style messages for one category.
// A Logger with no sugar is a no-op.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	loggers   = make(map[Category]*Logger)
	files     []*os.File
	loggersMu sync.RWMutex

	logsDir string
	cfg     config.LoggingConfig
	level   zapcore.Level
	cfgMu   sync.RWMutex
)

// Initialize sets up logging under stateDir. It is a silent no-op when
// debug mode is off.
func Initialize(stateDir string, lc config.LoggingConfig) error {
	if stateDir == "" {
		return fmt.Errorf("state directory required")
	}

	CloseAll()

	cfgMu.Lock()
	cfg = lc
	logsDir = filepath.Join(stateDir, "logs")
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil || lc.Level == "" {
		level = zapcore.InfoLevel
	}
	cfgMu.Unlock()

	if !lc.DebugMode {
		return nil
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== tracker logging initialized ===")
	boot.Info("Logs directory: %s", logsDir)
	boot.Info("Log level: %s", level)
	return nil
}

// IsDebugMode returns whether debug logging is enabled
func IsDebugMode() bool {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	return cfg.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	return cfg.IsCategoryEnabled(string(category))
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode or the category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}

	cfgMu.RLock()
	dir, format, lvl := logsDir, cfg.Format, level
	cfgMu.RUnlock()

	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(dir, fmt.Sprintf("%s_%s.log", date, category))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}
	files = append(files, file)

	core := zapcore.NewCore(newEncoder(format), zapcore.AddSync(file), lvl)
	l := &Logger{
		category: category,
		sugar:    zap.New(core).Named(string(category)).Sugar(),
	}
	loggers[category] = l
	return l
}

func newEncoder(format string) zapcore.Encoder {
	if format == "json" {
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(ec)
	}
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	return zapcore.NewConsoleEncoder(ec)
}

// With returns a logger that attaches key/value fields to every entry.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	if l.sugar == nil {
		return l
	}
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Debugf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Errorf(format, args...)
}

// CloseAll flushes and closes all open log files (call at shutdown)
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, l := range loggers {
		if l.sugar != nil {
			_ = l.sugar.Sync()
		}
	}
	for _, f := range files {
		_ = f.Close()
	}
	files = nil
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS - no-ops when the category is disabled
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) { Get(CategoryBoot).Info(format, args...) }

// BootError logs an error to the boot category
func BootError(format string, args ...interface{}) { Get(CategoryBoot).Error(format, args...) }

// APIError logs an error to the api category
func APIError(format string, args ...interface{}) { Get(CategoryAPI).Error(format, args...) }

// View logs to the view category
func View(format string, args ...interface{}) { Get(CategoryView).Info(format, args...) }

// ViewDebug logs debug to the view category
func ViewDebug(format string, args ...interface{}) { Get(CategoryView).Debug(format, args...) }

// Sync logs to the sync category
func Sync(format string, args ...interface{}) { Get(CategorySync).Info(format, args...) }

// SyncError logs an error to the sync category
func SyncError(format string, args ...interface{}) { Get(CategorySync).Error(format, args...) }

// Config logs to the config category
func Config(format string, args ...interface{}) { Get(CategoryConfig).Info(format, args...) }

// ConfigWarn logs a warning to the config category
func ConfigWarn(format string, args ...interface{}) { Get(CategoryConfig).Warn(format, args...) }

// Export logs to the export category
func Export(format string, args ...interface{}) { Get(CategoryExport).Info(format, args...) }

// ExportDebug logs debug to the export category
func ExportDebug(format string, args ...interface{}) { Get(CategoryExport).Debug(format, args...) }

// =============================================================================
// TIMING HELPERS
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration at debug level
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs a warning if the duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
