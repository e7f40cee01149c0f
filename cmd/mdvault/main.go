// Package main provides mdvault, a local-first persistence and integrity
// layer for markdown workspaces.
package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pedroaldea/md-editor/internal/cli"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	environ := os.Environ()
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	exitCode := cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, env)

	os.Exit(exitCode)
}
