package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/bmpsync/internal/shared"
	"github.com/desertthunder/bmpsync/internal/tags"
	"github.com/urfave/cli/v3"
)

// TagsClassify prints the ensemble tags for a title and optional comment.
func (r *Runner) TagsClassify(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	comment := cmd.String("comment")

	if title == "" && comment == "" {
		return fmt.Errorf("%w: a title or --comment is required", shared.ErrMissingArgument)
	}

	result := tags.Classify(title, comment)

	if cmd.Bool("json") {
		found := tags.Split(result)
		if found == nil {
			found = []string{}
		}
		return r.writeJSON(map[string]any{"title": title, "comment": comment, "tags": found}, false)
	}

	if result == "" {
		return r.writePlain("(no tags)\n")
	}
	return r.writePlain("%s\n", result)
}
