package aggregator

import "errors"

// ErrInsufficientSources indicates that fewer sources returned usable
// quotes than the configured minimum. The result cache is left untouched.
var ErrInsufficientSources = errors.New("insufficient price sources")
