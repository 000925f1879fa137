package errprocess

import (
	"errors"
	"fmt"

	"support_chat_service/pkg/logger"

	"go.uber.org/zap"
)

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// Wrap tag msg with an error kind so callers can match it with errors.Is.
// Kinds are caller mistakes, so they are logged at warn.
func Wrap(kind error, msg string) error {
	logger.Log.Warn(msg, zap.String("kind", kind.Error()))
	return fmt.Errorf("%w: %s", kind, msg)
}
