// cmd/main.go
package main

import (
	"go-ledger-api/app"
)

// @title           Ledger API
// @version         1.0
// @description     A session-scoped personal finance ledger API built with Go.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
func main() {
	app.Run()
}
