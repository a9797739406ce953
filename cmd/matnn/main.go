// Command matnn multiplies matrices with naive and Strassen strategies,
// trains small feed-forward classifiers, calibrates the Strassen cutoff
// and serves products over HTTP.
package main

import (
	"context"
	"os"

	"github.com/agbru/matnn/internal/app"
	apperrors "github.com/agbru/matnn/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout, app.HasJSONFlag(os.Args[1:]))
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
