package main

import (
	"os"

	"github.com/mlee0412/frok-server/internal/app"
)

// @title           Frok Server API
// @version         1.0
// @description     Backend for the Frok smart-home assistant: agent turn streaming, thread storage, device state and system health.
// @BasePath        /api
func main() {
	os.Exit(app.Run())
}
