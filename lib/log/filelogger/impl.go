package filelogger

import (
	"bufio"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/redox-os-tools/disk-installer/lib/fsutil"
	"github.com/redox-os-tools/disk-installer/lib/log/debuglogger"
)

func newLogger(filename string, options Options) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(filename), fsutil.DirPerms); err != nil {
		return nil, err
	}
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	writer := bufio.NewWriter(file)
	var output io.Writer = writer
	if options.AlsoLogToStderr {
		output = io.MultiWriter(writer, os.Stderr)
	}
	logger := debuglogger.New(log.New(output, "", options.Flags))
	logger.SetLevel(options.DebugLevel)
	return &Logger{
		Logger:   logger,
		file:     file,
		filename: filename,
		writer:   writer,
	}, nil
}

func (l *Logger) close() error {
	flushError := l.Flush()
	if err := l.file.Close(); err != nil {
		return err
	}
	return flushError
}
