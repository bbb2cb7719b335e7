package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var log = logrus.New()

func init() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
	})
	log.SetLevel(logrus.InfoLevel)
}

// Init configures the verbosity level and, if logFilePath is non-empty,
// mirrors output to a rotating log file.
func Init(verbosity int, logFilePath string) error {
	switch {
	case verbosity == 1:
		log.SetLevel(logrus.DebugLevel)
	case verbosity > 1:
		log.SetLevel(logrus.TraceLevel)
	}

	if logFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0o755); err != nil {
			return err
		}

		rotator := &lumberjack.Logger{
			Filename:   logFilePath,
			MaxSize:    25,
			MaxBackups: 5,
			MaxAge:     30,
		}

		log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	}

	return nil
}

// GetLogger returns a logger entry with the given prefix.
func GetLogger(prefix string) *logrus.Entry {
	return log.WithField("prefix", prefix)
}
