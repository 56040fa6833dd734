package cache

import "errors"

// ErrConfiguration is returned when a category or policy is invalid. It is
// fatal at startup.
var ErrConfiguration = errors.New("cache configuration error")
