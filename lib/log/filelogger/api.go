package filelogger

import (
	"bufio"
	"os"

	"github.com/redox-os-tools/disk-installer/lib/log/debuglogger"
)

// Logger writes log messages to a file, optionally duplicating them to
// stderr. Messages are buffered; call Flush before reading the file.
type Logger struct {
	*debuglogger.Logger
	file     *os.File
	filename string
	writer   *bufio.Writer
}

type Options struct {
	AlsoLogToStderr bool
	Flags           int
	DebugLevel      int16 // Supported range: -1 to 32767.
}

// New will create a *Logger with the specified filename and options. Any
// missing parent directories are created.
func New(filename string, options Options) (*Logger, error) {
	return newLogger(filename, options)
}

func (l *Logger) Close() error {
	return l.close()
}

// Filename returns the name of the file being logged to.
func (l *Logger) Filename() string {
	return l.filename
}

func (l *Logger) Flush() error {
	return l.writer.Flush()
}
