package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"rf/internal/folder"

	flag "github.com/spf13/pflag"
)

// openCmd returns the open command.
func openCmd(a *app) *Command {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	fs.Bool("no-launch", false, "Record the open without launching a file manager")

	return &Command{
		Flags: fs,
		Usage: "open <path>",
		Short: "Open a folder and record the open event",
		Long: `Open a folder in the configured file manager and record the open event.

The open count feeds the priority ranking: each recorded open outranks any
recency difference between passively observed folders. The event is recorded
only when the launch succeeds.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execOpen(ctx, o, a, fs, args)
		},
	}
}

func execOpen(ctx context.Context, o *IO, a *app, fs *flag.FlagSet, args []string) error {
	if len(args) == 0 {
		return folder.ErrPathRequired
	}

	path := args[0]
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.cfg.EffectiveCwd, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", folder.ErrFolderNotFound, path)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", folder.ErrNotADirectory, path)
	}

	noLaunch, _ := fs.GetBool("no-launch")

	if !noLaunch {
		if err := launchOpener(ctx, a.cfg.Opener, path); err != nil {
			// Launch failed: the open is not recorded.
			return err
		}
	}

	if err := a.session.NotifyOpened(path); err != nil {
		return err
	}

	o.Println("opened:", path)

	return nil
}

// launchOpener starts the file manager for path. The configured opener wins;
// otherwise the usual platform openers are tried on PATH.
func launchOpener(ctx context.Context, opener, path string) error {
	name := opener

	if name == "" {
		for _, candidate := range []string{"xdg-open", "open", "explorer"} {
			if _, err := exec.LookPath(candidate); err == nil {
				name = candidate

				break
			}
		}
	}

	if name == "" {
		return folder.ErrNoOpener
	}

	cmd := exec.CommandContext(ctx, name, path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launching %s: %w", name, err)
	}

	// File managers detach; reap the child without tying the command's
	// exit status to ours.
	go func() { _ = cmd.Wait() }()

	return nil
}
