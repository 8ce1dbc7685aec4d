// cmd/tablespoon/main.go
package main

import (
	"tablespoon/internal/app"
	"tablespoon/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
