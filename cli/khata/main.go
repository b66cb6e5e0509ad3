package main

import (
	"os"

	"github.com/joho/godotenv"

	khatacmder "github.com/papercomputeco/khata/cmd/khata"
)

func main() {
	// Load .env if present so GEMINI_API_KEY and KHATA_ overrides are
	// available before any command reads its configuration.
	_ = godotenv.Load()

	cmd := khatacmder.NewKhataCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
