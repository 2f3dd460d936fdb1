package render

import "errors"

// Sentinel kinds for rendering errors. Each one is fatal to the export
// cycle that hit it, never to the process.
var (
	ErrLayoutTargetMissing   = errors.New("document layout target missing")
	ErrRasterizerUnavailable = errors.New("rasterizer unavailable")
	ErrRasterizationFailed   = errors.New("rasterization failed")
)
