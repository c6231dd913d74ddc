package cli

import (
	"context"
	"path/filepath"
	"strings"

	"rf/internal/folder"

	flag "github.com/spf13/pflag"
)

// commentCmd returns the comment command.
func commentCmd(a *app) *Command {
	fs := flag.NewFlagSet("comment", flag.ContinueOnError)

	return &Command{
		Flags: fs,
		Usage: "comment <path> [text...]",
		Short: "Set or clear a folder comment",
		Long: `Set a comment on a folder, or clear it by giving no text.

A manual comment pins the folder: classification sweeps no longer overwrite
it. Clearing the comment makes the folder eligible for auto-tagging again.
Comments starting with "[" are treated as auto-generated, matching the
stored-file convention.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execComment(ctx, o, a, args)
		},
	}
}

func execComment(_ context.Context, o *IO, a *app, args []string) error {
	if len(args) == 0 {
		return folder.ErrPathRequired
	}

	path := args[0]
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.cfg.EffectiveCwd, path)
	}

	text := strings.Join(args[1:], " ")

	if err := a.store.SetComment(path, text); err != nil {
		return err
	}

	if strings.TrimSpace(text) == "" {
		o.Println("comment cleared:", path)
	} else {
		o.Println("comment set:", path)
	}

	return nil
}
