package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/ormeet/ormeet-api/cmd/app"
)

// @title        Ormeet API
// @version      1.0
// @description  Event ticketing: venues, organizations, events, orders, tickets and check-in.
// @BasePath     /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT returned by /auth/login.
func main() {
	if err := app.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "ormeet-api: %v\n", err)
		os.Exit(1)
	}
}
