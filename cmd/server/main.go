package main

import (
	"os"

	"legalaid/internal/app"
)

// @title          Legal Aid Assistant API
// @version        1.0
// @description    Streaming proxy between the conversation client and the hosted model.
// @BasePath       /api
func main() {
	os.Exit(app.Run())
}
