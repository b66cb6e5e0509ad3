package memory

import "errors"

// ErrNotConfigured is returned when memory operations are attempted
// but no memory driver has been configured.
var ErrNotConfigured = errors.New("memory not configured")

// ErrNoExchanges is returned by Last when the session has no recorded
// exchanges yet.
var ErrNoExchanges = errors.New("no exchanges recorded")
