// Package logger provides a leveled, line-count-limited file logger
// with package-level convenience functions.
package logger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MaxLogLines is the maximum number of lines kept in the log file
// before it is trimmed to half that size.
const MaxLogLines = 5000

// Level represents the logging level.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of a level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a string into a Level. Unknown strings map to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes leveled log lines to a file, trimming the file when it
// grows past MaxLogLines.
type Logger struct {
	file      *os.File
	lineCount int
	level     Level
	mu        sync.Mutex
}

var globalLogger atomic.Pointer[Logger]

// fallback is used before New has been called.
var fallback = &Logger{file: os.Stderr, level: LevelInfo}

// New creates a Logger writing to file and installs it as the global
// logger used by the package-level functions.
func New(file *os.File, level Level) *Logger {
	l := &Logger{file: file, level: level}
	l.countExistingLines()
	globalLogger.Store(l)
	return l
}

func current() *Logger {
	if l := globalLogger.Load(); l != nil {
		return l
	}
	return fallback
}

// Trace returns a function that logs the elapsed time since the call
// when invoked. It is a no-op unless TRACE level is enabled.
// Usage: defer logger.Trace("operation")()
func Trace(name string) func() {
	l := current()
	if !l.enabled(LevelTrace) {
		return func() {}
	}
	start := time.Now()
	return func() {
		l.log(LevelTrace, "%s: %v", name, time.Since(start))
	}
}

func Debug(format string, v ...any) { current().log(LevelDebug, format, v...) }
func Info(format string, v ...any)  { current().log(LevelInfo, format, v...) }
func Warn(format string, v ...any)  { current().log(LevelWarn, format, v...) }
func Error(format string, v ...any) { current().log(LevelError, format, v...) }

// Fatal logs an error message and exits with code 1.
func Fatal(format string, v ...any) {
	current().log(LevelError, format, v...)
	os.Exit(1)
}

func (l *Logger) enabled(level Level) bool {
	return level >= l.level
}

func (l *Logger) log(level Level, format string, v ...any) {
	if !l.enabled(level) {
		return
	}
	msg := fmt.Sprintf("%s [%s] %s\n",
		time.Now().Format("2006/01/02 15:04:05"), level, fmt.Sprintf(format, v...))
	l.Write([]byte(msg))
}

// Write implements io.Writer so the logger can back the standard
// library log package if needed.
func (l *Logger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.file.Write(p)
	if err != nil {
		return n, err
	}

	l.lineCount += strings.Count(string(p), "\n")
	if l.lineCount > MaxLogLines {
		l.trim()
	}
	return n, nil
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	return l.file.Close()
}

func (l *Logger) countExistingLines() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.file.Seek(0, io.SeekStart)
	scanner := bufio.NewScanner(l.file)
	count := 0
	for scanner.Scan() {
		count++
	}
	l.lineCount = count
	l.file.Seek(0, io.SeekEnd)
}

// trim rewrites the log file keeping only the newest MaxLogLines/2
// lines. Scans backwards from the end so the whole file is never held
// in memory as lines.
func (l *Logger) trim() {
	keep := MaxLogLines / 2

	size, err := l.file.Seek(0, io.SeekEnd)
	if err != nil || size == 0 {
		return
	}

	buf := make([]byte, min(int(size), 64*1024))
	newlines := 0
	cut := int64(0)

scan:
	for pos := size; pos > 0; {
		readSize := min(int64(len(buf)), pos)
		pos -= readSize
		l.file.Seek(pos, io.SeekStart)
		n, err := l.file.Read(buf[:readSize])
		if err != nil || n == 0 {
			break
		}
		for i := n - 1; i >= 0; i-- {
			if buf[i] == '\n' {
				newlines++
				if newlines == keep {
					cut = pos + int64(i) + 1
					break scan
				}
			}
		}
	}

	l.file.Seek(cut, io.SeekStart)
	kept, err := io.ReadAll(l.file)
	if err != nil {
		return
	}

	l.file.Truncate(0)
	l.file.Seek(0, io.SeekStart)
	l.file.Write(kept)
	l.lineCount = keep
}
