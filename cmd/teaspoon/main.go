// cmd/teaspoon/main.go
package main

import (
	"tablespoon/internal/appshell"
	"tablespoon/internal/pairapp"
)

func main() {
	appshell.Main(pairapp.RunContext)
}
