package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine, the environment and the config file are enough.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
