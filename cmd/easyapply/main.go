// Command easyapply drives an application form to submission.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil { //nolint:noinlineerr
		os.Exit(1)
	}
}
