package testlogger

import (
	"fmt"
	"strings"
)

func strip(s string) string {
	return strings.TrimSuffix(s, "\n")
}

func plainSprint(v ...interface{}) string {
	return strip(fmt.Sprint(v...))
}

func plainSprintf(format string, v ...interface{}) string {
	return strip(fmt.Sprintf(format, v...))
}

func newTestlogger(logger TestLogger) *Logger {
	return &Logger{
		logger:  logger,
		sprint:  plainSprint,
		sprintf: plainSprintf,
	}
}

func (l *Logger) contains(substr string) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func (l *Logger) log(line string) {
	l.mutex.Lock()
	l.lines = append(l.lines, line)
	l.mutex.Unlock()
	l.logger.Log(line)
}
