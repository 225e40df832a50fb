package cli

import (
	"io"

	"github.com/m-mizutani/fireconf"
)

// DefineFirestoreIndexes exposes defineFirestoreIndexes for testing
func DefineFirestoreIndexes() *fireconf.Config {
	return defineFirestoreIndexes()
}

// SetOutput replaces the writer commands print to and returns a restore func.
func SetOutput(w io.Writer) func() {
	prev := output
	output = w
	return func() { output = prev }
}
