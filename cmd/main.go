// Command bmpsync copies new songs from the Bard Music Player listing into the song database.
package main

import (
	"context"
	"os"

	"github.com/desertthunder/bmpsync/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := runner.app().Run(context.Background(), os.Args); err != nil {
		logger.Fatal("application error", "error", err)
	}
}
