// Command pixsecret derives image scrambling secrets from passwords and seed files.
package main

import (
	"os"

	"github.com/idelchi/pixsecret/internal/commands"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "unknown"

func main() {
	os.Exit(commands.Execute(version))
}
