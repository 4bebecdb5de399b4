package metrics

import "errors"

// ErrNoRegistry is returned when a Manager has nothing to gather from.
var ErrNoRegistry = errors.New("metrics registry is not gatherable")
