package main

import (
	"os"

	"github.com/joho/godotenv"

	apicmder "github.com/papercomputeco/khata/cmd/khata/serve/api"
)

func main() {
	_ = godotenv.Load()

	cmd := apicmder.NewAPICmd()
	cmd.Use = "khataapi"
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory holding config.toml (default: ./.khata or ~/.khata)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
