package main

import (
	"os"

	"legalaid/internal/app"
)

func main() {
	os.Exit(app.RunClient(os.Args[1:]))
}
