package testutil

import (
	"io"

	"github.com/dtroode/tasktracker-server/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0)
}
