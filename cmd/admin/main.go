package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/tendant/researchlog/pkg/researchlog"
	"github.com/tendant/researchlog/pkg/researchlog/config"
)

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	root := newRootCmd(buildService)
	root.SetOut(os.Stdout)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildService creates a service from the same environment the server reads.
func buildService() (researchlog.Service, error) {
	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		return nil, err
	}
	return cfg.BuildService()
}
