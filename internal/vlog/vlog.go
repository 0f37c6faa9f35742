// Package vlog provides the severity-gated logger the writer and reader
// pipelines use for lifecycle and error events, modeled directly on
// janelia-flyem-dvid's dvid.Logger: a small interface with one method per
// severity, a per-logger severity gate, and a concrete implementation
// backed by a rotating file via github.com/natefinch/lumberjack.
package vlog

import (
	"fmt"
	"log"
	"time"

	"github.com/natefinch/lumberjack"
)

// Level is a log severity, ordered least to most severe.
type Level int

// Severity levels, matching dvid.Logger's Debug/Info/Warning/Error/Critical
// tiers.
const (
	Debug Level = iota
	Info
	Warning
	Error
	Critical
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Logger is implemented by anything the pipeline can report lifecycle and
// error events to. The writer and reader pipelines log worker/I-O-thread
// lifecycle events at Debug, cancellation at Warning, and fatal pipeline
// errors at Error, per spec.md's error taxonomy.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Criticalf(format string, args ...interface{})
}

// Nop discards every message. It is the default Logger for callers that
// don't configure one.
type Nop struct{}

func (Nop) Debugf(string, ...interface{})    {}
func (Nop) Infof(string, ...interface{})     {}
func (Nop) Warningf(string, ...interface{})  {}
func (Nop) Errorf(string, ...interface{})    {}
func (Nop) Criticalf(string, ...interface{}) {}

// FileLogger writes severity-gated, timestamped lines to a rotating log
// file (or to the standard logger if unconfigured), the way
// dvid.stdLogger wraps a *lumberjack.Logger.
type FileLogger struct {
	gate Level
	lj   *lumberjack.Logger
}

// Config mirrors dvid.LogConfig: a target file plus lumberjack's rotation
// knobs (megabytes, days).
type Config struct {
	Path       string
	MaxSizeMB  int
	MaxAgeDays int
	Gate       Level
}

// New builds a FileLogger. If cfg.Path is empty, messages go to the
// standard library logger instead of a file, matching dvid's "no log file
// specified" fallback.
func New(cfg Config) *FileLogger {
	fl := &FileLogger{gate: cfg.Gate}
	if cfg.Path != "" {
		fl.lj = &lumberjack.Logger{
			Filename: cfg.Path,
			MaxSize:  cfg.MaxSizeMB,
			MaxAge:   cfg.MaxAgeDays,
		}
	}
	return fl
}

func (f *FileLogger) write(level Level, format string, args ...interface{}) {
	if level < f.gate {
		return
	}
	line := fmt.Sprintf("%s %s %s\n", time.Now().UTC().Format(time.RFC3339), level, fmt.Sprintf(format, args...))
	if f.lj != nil {
		f.lj.Write([]byte(line))
		return
	}
	log.Print(line)
}

func (f *FileLogger) Debugf(format string, args ...interface{})    { f.write(Debug, format, args...) }
func (f *FileLogger) Infof(format string, args ...interface{})     { f.write(Info, format, args...) }
func (f *FileLogger) Warningf(format string, args ...interface{})  { f.write(Warning, format, args...) }
func (f *FileLogger) Errorf(format string, args ...interface{})    { f.write(Error, format, args...) }
func (f *FileLogger) Criticalf(format string, args ...interface{}) { f.write(Critical, format, args...) }
