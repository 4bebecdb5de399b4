package logger

import "errors"

// ErrUnknownLevel is returned by SetLevelString for an unrecognized level.
var ErrUnknownLevel = errors.New("unknown log level")
