package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/kerygma-labs/kerygma-cli/internal/adapters/driving/cli"
)

func main() {
	// A local .env may carry OPENAI_API_KEY during development.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
