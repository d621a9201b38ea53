package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  = newLogger(os.Stdout, logrus.InfoLevel)
	ErrorLogger = newLogger(os.Stderr, logrus.WarnLevel)
)

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	l.SetLevel(level)
	return l
}

// InitLogger menyiapkan ulang logger; forceColors dipakai saat berjalan di terminal.
func InitLogger(forceColors bool) {
	InfoLogger = newLogger(os.Stdout, logrus.InfoLevel)
	ErrorLogger = newLogger(os.Stderr, logrus.WarnLevel)

	if forceColors {
		InfoLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: true})
		ErrorLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: true})
	}
}

// SilenceLoggers dipakai di test agar output tidak ramai.
func SilenceLoggers() {
	InfoLogger.SetOutput(io.Discard)
	ErrorLogger.SetOutput(io.Discard)
}
