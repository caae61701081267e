package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFilePath is the structured log file, relative to the working directory.
const LogFilePath = "logs/gachapon.log"

// maxLines caps the in-memory ring the console overlay draws from.
const maxLines = 200

// Logger writes structured entries through zap and keeps the rendered lines
// in memory so the in-game console can show recent history.
type Logger struct {
	zl *zap.Logger

	mu    sync.Mutex
	lines []string
}

// New returns a logger writing to LogFilePath (directory created if needed).
// If the file sink cannot be opened, logging still works in memory only.
func New() *Logger {
	_ = os.MkdirAll(filepath.Dir(LogFilePath), 0755)
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{LogFilePath}
	cfg.ErrorOutputPaths = []string{LogFilePath}
	cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	zl, err := cfg.Build()
	if err != nil {
		zl = zap.NewNop()
	}
	return &Logger{zl: zl}
}

// Log records a console line at info level.
func (l *Logger) Log(line string) {
	l.zl.Info(line)
	l.push(line)
}

// Logf records a formatted console line at info level.
func (l *Logger) Logf(format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...))
}

// Error records an error both structured and on the console ring.
func (l *Logger) Error(msg string, err error) {
	l.zl.Error(msg, zap.Error(err))
	if err != nil {
		l.push(msg + ": " + err.Error())
	} else {
		l.push(msg)
	}
}

// Lines returns a copy of the recent console lines, oldest first.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Sync flushes the underlying zap sink. Call on shutdown.
func (l *Logger) Sync() {
	_ = l.zl.Sync()
}

func (l *Logger) push(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
	if len(l.lines) > maxLines {
		l.lines = l.lines[len(l.lines)-maxLines:]
	}
}
