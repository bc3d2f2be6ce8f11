package main

import (
	"github.com/joho/godotenv"
	"github.com/zuai/sample-paper-api/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// .env is optional; config falls back to real environment variables.
	godotenv.Load()
}
