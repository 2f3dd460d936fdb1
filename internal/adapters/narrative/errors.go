package narrative

import "errors"

// Sentinel kinds for narrative errors.
var (
	ErrGenerationFailed = errors.New("narrative generation failed")
)
