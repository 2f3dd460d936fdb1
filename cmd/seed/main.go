package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/agrofair/portal/internal/seed"
	"github.com/agrofair/portal/pkg/logger"
)

// Default configuration constants.
const (
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 2 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the portal service")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		withPhotos = flag.Bool("photos", true, "Also seed the photo gallery")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &seed.Config{
		BaseURL:    *baseURL,
		Timeout:    *timeout,
		WithPhotos: *withPhotos,
	}

	if err := seed.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
