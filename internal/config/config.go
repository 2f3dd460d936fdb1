// Package config defines service configuration structures and loading hooks.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath points at the SQLite database file. Empty selects the
	// in-memory store (state lost on restart).
	DBPath string `koanf:"db_path"`

	// PollIntervalMS is the cadence of the background stats poller.
	PollIntervalMS int `koanf:"poll_interval_ms"`

	// NarrativeMode selects the report narrative provider: "static"
	// (canned text, no external calls) or "http".
	NarrativeMode string `koanf:"narrative_mode"`

	// NarrativeURL is the endpoint of the external text-generation
	// service, used when NarrativeMode is "http".
	NarrativeURL string `koanf:"narrative_url"`

	// NarrativeLatencyMinMS and NarrativeLatencyMaxMS bound the static
	// provider's simulated generation latency.
	NarrativeLatencyMinMS int `koanf:"narrative_latency_min_ms"`
	NarrativeLatencyMaxMS int `koanf:"narrative_latency_max_ms"`

	// RasterizerURL is the HTML-to-PDF rendering service endpoint.
	// Empty wires the explicit unavailable variant.
	RasterizerURL string `koanf:"rasterizer_url"`

	// ExportDir is the directory exported report artifacts are saved to.
	ExportDir string `koanf:"export_dir"`

	// ExportStepTimeoutMS bounds each external call of an export cycle
	// (narrative generation, rasterization). Zero disables the bound,
	// matching the historical behavior where a hung collaborator pins
	// the exporter until the process restarts.
	ExportStepTimeoutMS int `koanf:"export_step_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		DBPath:                "",
		PollIntervalMS:        5_000,
		NarrativeMode:         "static",
		NarrativeURL:          "",
		NarrativeLatencyMinMS: 1_500,
		NarrativeLatencyMaxMS: 2_500,
		RasterizerURL:         "",
		ExportDir:             "exports",
		ExportStepTimeoutMS:   0,
	}
}
