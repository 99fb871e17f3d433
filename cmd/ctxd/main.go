// Command ctxd runs a go-ctx application with the demo providers and
// exposes its root container from the command line or over HTTP.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
