package testlogger

import (
	"sync"
)

type sprintFunc func(v ...interface{}) string
type sprintfFunc func(format string, v ...interface{}) string

// Logger adapts a TestLogger to the log.DebugLogger interface. Every message
// is also recorded so that tests may assert on what was logged.
type Logger struct {
	logger  TestLogger
	sprint  sprintFunc
	sprintf sprintfFunc
	mutex   sync.Mutex
	lines   []string
}

// TestLogger defines an interface for a type that can be used for logging by
// tests. The testing.T type from the standard library satisfies this interface.
type TestLogger interface {
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})
	Log(v ...interface{})
	Logf(format string, v ...interface{})
}

// New will create a Logger from a TestLogger. Trailing newlines are removed
// before calling the TestLogger methods.
func New(logger TestLogger) *Logger {
	return newTestlogger(logger)
}

// Contains returns true if any recorded message contains substr.
func (l *Logger) Contains(substr string) bool {
	return l.contains(substr)
}

// Lines returns a copy of the recorded messages.
func (l *Logger) Lines() []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return append([]string(nil), l.lines...)
}

// Debug will log regardless of the debug level.
func (l *Logger) Debug(level uint8, v ...interface{}) {
	l.log(l.sprint(v...))
}

func (l *Logger) Debugf(level uint8, format string, v ...interface{}) {
	l.log(l.sprintf(format, v...))
}

func (l *Logger) Debugln(level uint8, v ...interface{}) {
	l.log(l.sprint(v...))
}

func (l *Logger) Fatal(v ...interface{}) {
	l.logger.Fatal(l.sprint(v...))
}

func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.logger.Fatal(l.sprintf(format, v...))
}

func (l *Logger) Fatalln(v ...interface{}) {
	l.logger.Fatal(l.sprint(v...))
}

// Panic will call the Fatal method of the underlying TestLogger and will then
// call panic.
func (l *Logger) Panic(v ...interface{}) {
	s := l.sprint(v...)
	l.logger.Fatal(s)
	panic(s)
}

func (l *Logger) Panicf(format string, v ...interface{}) {
	s := l.sprintf(format, v...)
	l.logger.Fatal(s)
	panic(s)
}

func (l *Logger) Panicln(v ...interface{}) {
	s := l.sprint(v...)
	l.logger.Fatal(s)
	panic(s)
}

func (l *Logger) Print(v ...interface{}) {
	l.log(l.sprint(v...))
}

func (l *Logger) Printf(format string, v ...interface{}) {
	l.log(l.sprintf(format, v...))
}

func (l *Logger) Println(v ...interface{}) {
	l.log(l.sprint(v...))
}
