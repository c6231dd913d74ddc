package cli

import (
	"context"
	"path/filepath"

	"rf/internal/folder"
	"rf/internal/index"

	flag "github.com/spf13/pflag"
)

// classifyCmd returns the classify command.
func classifyCmd(a *app) *Command {
	fs := flag.NewFlagSet("classify", flag.ContinueOnError)
	fs.Bool("all", false, "Sweep every folder in the recent list")
	fs.Bool("no-cache", false, "Bypass the scan cache")
	fs.Bool("prune", false, "With --all: drop cached scans for folders no longer listed")

	return &Command{
		Flags: fs,
		Usage: "classify [path] [flags]",
		Short: "Derive category and tags for folders",
		Long: `Derive a category and tags for one folder, or sweep the whole list.

Tags come from path keywords, a shallow look at the folder contents, and the
open history (frequency and recency). The result is stored as an
auto-generated comment "[category] tag | tag". Folders with a manual comment
are skipped. Scan results are cached in sqlite keyed by directory mtime.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execClassify(ctx, o, a, fs, args)
		},
	}
}

func execClassify(ctx context.Context, o *IO, a *app, fs *flag.FlagSet, args []string) error {
	all, _ := fs.GetBool("all")
	noCache, _ := fs.GetBool("no-cache")
	prune, _ := fs.GetBool("prune")

	var (
		scanCache folder.ScanCache
		idx       *index.Index
	)

	if !noCache {
		idx = a.openIndex(ctx, o)
		if idx != nil {
			defer func() { _ = idx.Close() }()
		}

		scanCache = cache(idx)
	}

	if !all {
		return classifyOne(ctx, o, a, scanCache, args)
	}

	if err := a.session.Refresh(ctx); err != nil {
		return err
	}

	applied, err := a.session.ClassifySweep(ctx, scanCache)
	if err != nil {
		return err
	}

	o.Printf("classified %d of %d folders\n", applied, a.session.Catalog().Len())

	if prune && idx != nil {
		keep := make(map[folder.Key]bool, a.session.Catalog().Len())
		for _, e := range a.session.Catalog().Entries() {
			keep[e.Key] = true
		}

		dropped, pruneErr := idx.Prune(ctx, keep)
		if pruneErr != nil {
			o.Warnf("cache prune failed: %v", pruneErr)
		} else {
			o.Printf("pruned %d cached scans\n", dropped)
		}
	}

	return nil
}

func classifyOne(ctx context.Context, o *IO, a *app, scanCache folder.ScanCache, args []string) error {
	if len(args) == 0 {
		return folder.ErrPathRequired
	}

	path := args[0]
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.cfg.EffectiveCwd, path)
	}

	c, applied, err := a.session.ClassifyOne(ctx, path, scanCache)
	if err != nil {
		return err
	}

	o.Println(c.Comment())

	if !applied {
		o.Println("(not stored: folder has a manual comment)")
	}

	return nil
}
