// @title Menu Service API
// @version 1.0
// @description CRUD API for menus, submenus and dishes with a read-through cache.
// @BasePath /api/v1
// @securityDefinitions.apikey AdminToken
// @in header
// @name X-Admin-Token
package main

import (
	"os"

	"menu-service/internal/cli"
	"menu-service/internal/common/logging"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Error("menu-service failed", err)
		logging.MustSync()
		os.Exit(1)
	}
}
