package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// refreshCmd returns the refresh command.
func refreshCmd(a *app) *Command {
	fs := flag.NewFlagSet("refresh", flag.ContinueOnError)

	return &Command{
		Flags: fs,
		Usage: "refresh",
		Short: "Re-enumerate recent folders and report counts",
		Long: `Re-enumerate the recent-items directory and report what was found.

Duplicate observations of the same folder (case or separator variants) are
merged, keeping the latest access time. Folders whose target no longer
exists stay in the list, flagged.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execRefresh(ctx, o, a)
		},
	}
}

func execRefresh(ctx context.Context, o *IO, a *app) error {
	if err := a.session.Refresh(ctx); err != nil {
		return err
	}

	total := a.session.Catalog().Len()
	missing := 0
	opened := 0

	for _, e := range a.session.Catalog().Entries() {
		if !e.Exists {
			missing++
		}

		if a.store.Opened(e.Key) {
			opened++
		}
	}

	o.Printf("%d folders (%d opened before, %d missing)\n", total, opened, missing)

	return nil
}
