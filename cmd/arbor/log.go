package main

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logTimeFormat = "2006-01-02 15:04:05"

type logger struct {
	*logrus.Logger
}

/*
newLogger returns a logger writing to STDERR, or to the given file with
rotation if filepath is not empty. Verbose loggers show Logf messages,
otherwise only warnings and errors are shown unless level says otherwise.
*/
func newLogger(verbose bool, level, filepath string) (*logger, error) {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: logTimeFormat,
	})
	var out io.Writer = os.Stderr
	if filepath != "" {
		out = &lumberjack.Logger{
			Filename:   filepath,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
	}
	l.SetOutput(out)
	l.SetLevel(logrus.WarnLevel)
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		l.SetLevel(lvl)
	}
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return &logger{l}, nil
}

func (l *logger) Logf(format string, a ...interface{}) {
	if l == nil || l.Logger == nil {
		return
	}
	l.Infof(format, a...)
}

// Close releases the log file, if any.
func (l *logger) Close() error {
	if l == nil || l.Logger == nil {
		return nil
	}
	if c, ok := l.Out.(io.Closer); ok && l.Out != os.Stderr {
		return c.Close()
	}
	return nil
}
