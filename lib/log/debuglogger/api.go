package debuglogger

import (
	"github.com/redox-os-tools/disk-installer/lib/log"
)

type Logger struct {
	level int16
	log.Logger
}

// New wraps logger, adding leveled debug methods. The debug level is
// initially -1, so no debug messages are emitted until SetLevel is called.
func New(logger log.Logger) *Logger {
	return &Logger{level: -1, Logger: logger}
}

func (l *Logger) Debug(level uint8, v ...interface{}) {
	if l.enabled(level) {
		l.Print(v...)
	}
}

func (l *Logger) Debugf(level uint8, format string, v ...interface{}) {
	if l.enabled(level) {
		l.Printf(format, v...)
	}
}

func (l *Logger) Debugln(level uint8, v ...interface{}) {
	if l.enabled(level) {
		l.Println(v...)
	}
}

// GetLevel returns the current maximum debug level.
func (l *Logger) GetLevel() int16 {
	return l.level
}

// SetLevel sets the maximum debug level. Supported range: -1 to 32767.
func (l *Logger) SetLevel(maxLevel int16) {
	if maxLevel < -1 {
		maxLevel = -1
	}
	l.level = maxLevel
}
