package main

import (
	"github.com/joho/godotenv"

	"nexus/internal/cli"
)

func main() {
	// A missing .env file is fine; environment variables still apply.
	_ = godotenv.Load()

	cli.Execute()
}
