// internal/logger/logger.go

package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

// Mode controls how much context each line carries: MINIMAL drops the
// timestamp, FULL adds the caller location.
type Mode int

const (
	MINIMAL Mode = iota
	NORMAL
	FULL
)

var (
	levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

	levelColors = [...]string{
		"\033[36m", // DEBUG cyan
		"\033[32m", // INFO green
		"\033[33m", // WARN yellow
		"\033[31m", // ERROR red
		"\033[35m", // FATAL magenta
	}

	resetColor = "\033[0m"
)

type Logger struct {
	level      Level
	mode       Mode
	mu         sync.Mutex
	consoleOut io.Writer
	fileOut    io.Writer
	logFile    *os.File
	useColors  bool
}

type Config struct {
	Level       Level
	Mode        Mode
	LogFilePath string
	UseColors   bool
}

func New(cfg Config) (*Logger, error) {
	l := &Logger{
		level:      cfg.Level,
		mode:       cfg.Mode,
		consoleOut: os.Stdout,
		useColors:  cfg.UseColors,
	}

	if cfg.LogFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to setup log file: %w", err)
		}
		file, err := os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to setup log file: %w", err)
		}
		l.logFile = file
		l.fileOut = file
	}

	return l, nil
}

func (l *Logger) Close() error {
	if l.logFile != nil {
		return l.logFile.Close()
	}
	return nil
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)

	location := ""
	if l.mode == FULL {
		if _, file, line, ok := runtime.Caller(2); ok {
			location = fmt.Sprintf("%s:%d", filepath.Base(file), line)
		}
	}

	if l.consoleOut != nil {
		fmt.Fprintln(l.consoleOut, l.buildLine(level, timestamp, location, message, l.useColors))
	}

	if l.fileOut != nil {
		fmt.Fprintln(l.fileOut, l.buildLine(level, timestamp, location, message, false))
	}

	if level == FATAL {
		os.Exit(1)
	}
}

func (l *Logger) buildLine(level Level, timestamp, location, msg string, colored bool) string {
	tag := "[" + levelNames[level] + "]"
	if colored {
		tag = levelColors[level] + tag + resetColor
	}

	switch l.mode {
	case MINIMAL:
		return fmt.Sprintf("%s %s", tag, msg)
	case FULL:
		return fmt.Sprintf("%s %s | %s | %s", tag, timestamp, location, msg)
	default:
		return fmt.Sprintf("%s %s | %s", tag, timestamp, msg)
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.log(FATAL, format, args...)
}

func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return DEBUG
	case "info", "INFO":
		return INFO
	case "warn", "WARN", "warning", "WARNING":
		return WARN
	case "error", "ERROR":
		return ERROR
	case "fatal", "FATAL":
		return FATAL
	default:
		return INFO
	}
}

func ParseMode(s string) Mode {
	switch s {
	case "minimal", "MINIMAL":
		return MINIMAL
	case "full", "FULL":
		return FULL
	default:
		return NORMAL
	}
}

var defaultLogger *Logger

func init() {
	defaultLogger, _ = New(Config{
		Level:     INFO,
		Mode:      NORMAL,
		UseColors: true,
	})
}

func Debug(format string, args ...interface{}) {
	defaultLogger.Debug(format, args...)
}

func Info(format string, args ...interface{}) {
	defaultLogger.Info(format, args...)
}

func Warn(format string, args ...interface{}) {
	defaultLogger.Warn(format, args...)
}

func Error(format string, args ...interface{}) {
	defaultLogger.Error(format, args...)
}

func Fatal(format string, args ...interface{}) {
	defaultLogger.Fatal(format, args...)
}
