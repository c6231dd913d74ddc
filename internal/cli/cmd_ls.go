package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"rf/internal/folder"

	"github.com/mattn/go-runewidth"
	flag "github.com/spf13/pflag"
)

const defaultLsLimit = 50

// pathColumnMax caps the path column so one pathological path does not push
// every comment off screen.
const pathColumnMax = 60

// lsCmd returns the ls command.
func lsCmd(a *app) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.StringP("filter", "f", "", "Case-insensitive substring filter on the path")
	fs.String("category", "", "Filter by auto-assigned category (e.g. 开发项目)")
	fs.Int("limit", defaultLsLimit, "Maximum folders to show (0 = all)")
	fs.Int("offset", 0, "Skip first N folders")
	fs.BoolP("long", "l", false, "Show open counts and comments")

	return &Command{
		Flags: fs,
		Usage: "ls [flags]",
		Short: "List recent folders by priority",
		Long: `List recently accessed folders, highest priority first.

The priority score combines the observed access time with the open history:
folders opened through rf rank above merely visited ones. Folders that no
longer exist are listed with a ! marker instead of being dropped.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execLs(ctx, o, a, fs)
		},
	}
}

func execLs(ctx context.Context, o *IO, a *app, fs *flag.FlagSet) error {
	limit, _ := fs.GetInt("limit")
	if limit < 0 {
		return errors.New("--limit must be non-negative")
	}

	offset, _ := fs.GetInt("offset")
	if offset < 0 {
		return errors.New("--offset must be non-negative")
	}

	filter, _ := fs.GetString("filter")
	category, _ := fs.GetString("category")
	long, _ := fs.GetBool("long")

	if err := a.session.Refresh(ctx); err != nil {
		return err
	}

	a.session.SetFilter(filter, category)

	entries := a.session.View()

	if offset >= len(entries) {
		return nil
	}

	entries = entries[offset:]

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	printEntries(o, a, entries, long)

	return nil
}

// printEntries renders one line per entry: a marker column, the path, and in
// long mode the open count and comment.
func printEntries(o *IO, a *app, entries []*folder.Entry, long bool) {
	pathWidth := 0

	if long {
		for _, e := range entries {
			if w := runewidth.StringWidth(e.Path); w > pathWidth && w <= pathColumnMax {
				pathWidth = w
			}
		}
	}

	for _, e := range entries {
		marker := " "

		switch {
		case !e.Exists:
			marker = "!"
		case a.store.Opened(e.Key):
			marker = "*"
		}

		if !long {
			o.Println(marker, e.Path)

			continue
		}

		count := "-"
		if u, ok := a.store.Usage(e.Key); ok {
			count = strconv.Itoa(u.Count)
		}

		comment := ""
		if ann, ok := a.store.Annotation(e.Key); ok {
			comment = ann.Comment
		}

		// runewidth keeps columns aligned when paths or comments
		// contain CJK characters, which occupy two cells.
		padded := runewidth.FillRight(e.Path, pathWidth)

		line := strings.TrimRight(marker+" "+padded+"  "+runewidth.FillLeft(count, 3)+"  "+comment, " ")
		o.Println(line)
	}
}
