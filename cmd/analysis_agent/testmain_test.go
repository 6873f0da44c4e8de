package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
)

// TestMain loads .env from the package and the repository root when present. Tests run
// with the package directory as the working directory, so the root file is two levels up.
func TestMain(m *testing.M) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("..", "..", ".env"))

	// In-process tests use stub services; never point them at a real deployment
	os.Unsetenv("ANALYSIS_SERVICE_URL")
	os.Unsetenv("ANALYSIS_API_KEY")

	os.Exit(m.Run())
}
