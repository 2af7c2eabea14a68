package config

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Configure sets logger's level and a text formatter with full timestamps.
func (l LogConfig) Configure(logger *logrus.Logger) error {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return nil
}
