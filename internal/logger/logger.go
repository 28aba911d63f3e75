package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logFile *os.File
	mu      sync.Mutex
	log     = newLogger()
)

const (
	maxLogSize = 5 * 1024 * 1024 // 5MB
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}

// Init opens ~/.config/duet/duet.log and points the logger at it.
// Until Init succeeds every message is discarded; the terminal belongs to the UI.
func Init() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot get home directory: %w", err)
	}
	return InitFile(filepath.Join(homeDir, ".config", "duet", "duet.log"))
}

// InitFile is Init with an explicit log path.
func InitFile(logPath string) error {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("cannot create log directory: %w", err)
	}

	// Rotate once the file grows past maxLogSize
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		oldPath := logPath + ".old"
		os.Remove(oldPath)
		os.Rename(logPath, oldPath)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
	}
	logFile = file
	log.SetOutput(file)
	return nil
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	log.SetOutput(io.Discard)
}

// Disable disables logging (useful for tests)
func Disable() {
	log.SetLevel(logrus.PanicLevel)
}

// Enable enables logging
func Enable() {
	log.SetLevel(logrus.InfoLevel)
}

// SetDebug toggles debug level output.
func SetDebug(debug bool) {
	if debug {
		log.SetLevel(logrus.DebugLevel)
		return
	}
	log.SetLevel(logrus.InfoLevel)
}

// Error logs an error message
func Error(format string, args ...any) {
	log.Errorf(format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...any) {
	log.Warnf(format, args...)
}

// Info logs an informational message
func Info(format string, args ...any) {
	log.Infof(format, args...)
}

// Debug logs a debug message
func Debug(format string, args ...any) {
	log.Debugf(format, args...)
}
