package export

import "errors"

// Sentinel kinds for export errors.
var (
	ErrInFlight = errors.New("export already in flight")
)
