// qrep represents quantum expressions from the command line and serves the
// quantum tools over HTTP.
//
// Usage:
//
//	qrep represent --expr '{"type":"object","kind":"XKet","label":"x"}'
//	qrep represent --expr @expr.json --format dense --basis SzOp
//	qrep tool rep_expectation --params '{"expr":{"type":"object","kind":"XOp","label":"X"}}'
//	qrep serve --config qrep.yaml --port 8080
//	qrep schema
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "qrep:", err)
		os.Exit(1)
	}
}
