package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"rf/internal/folder"

	"github.com/mattn/go-runewidth"
	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
)

// shellCmd returns the shell command, an interactive search REPL.
func shellCmd(a *app) *Command {
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)

	return &Command{
		Flags: fs,
		Usage: "shell",
		Short: "Interactive search over recent folders",
		Long: `Interactive shell: type to filter the folder list, then act on results.

Typing any text filters the list by case-insensitive substring match and
shows the top matches. Commands start with ":".

Commands:
  :ls             show the full filtered list
  :open <n>       open result n and record the open
  :preview <n>    shallow listing of result n
  :classify       run the tag sweep over the current list
  :refresh        re-enumerate recent folders
  :help           show this help
  :quit / :q      exit`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execShell(ctx, o, a)
		},
	}
}

// shellState carries the REPL's view bookkeeping between prompts.
type shellState struct {
	app   *app
	shown []*folder.Entry
}

func execShell(ctx context.Context, o *IO, a *app) error {
	if err := a.session.Refresh(ctx); err != nil {
		return err
	}

	line := liner.NewLiner()
	defer func() { _ = line.Close() }()

	line.SetCtrlCAborts(true)

	st := &shellState{app: a}
	st.showTop(o)

	for {
		input, err := line.Prompt("rf> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return nil // Ctrl-C
			}

			return nil // EOF or terminal gone
		}

		input = strings.TrimSpace(input)
		if input != "" {
			line.AppendHistory(input)
		}

		done, err := st.dispatch(ctx, o, input)
		if err != nil {
			o.ErrPrintln("error:", err)

			continue
		}

		if done {
			return nil
		}
	}
}

// dispatch handles one REPL input. Returns done=true on quit.
func (st *shellState) dispatch(ctx context.Context, o *IO, input string) (bool, error) {
	if !strings.HasPrefix(input, ":") {
		// Plain text is a filter; empty input clears it.
		st.app.session.SetFilter(input, "")
		st.showTop(o)

		return false, nil
	}

	cmd, arg, _ := strings.Cut(input[1:], " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "q", "quit", "exit":
		return true, nil
	case "help":
		o.Println("commands: :ls, :open <n>, :preview <n>, :classify, :refresh, :quit")

		return false, nil
	case "ls":
		st.showAll(ctx, o)

		return false, nil
	case "open":
		return false, st.open(ctx, o, arg)
	case "preview":
		return false, st.preview(o, arg)
	case "classify":
		idx := st.app.openIndex(ctx, o)
		if idx != nil {
			defer func() { _ = idx.Close() }()
		}

		applied, err := st.app.session.ClassifySweep(ctx, cache(idx))
		if err != nil {
			return false, err
		}

		o.Printf("classified %d folders\n", applied)

		return false, nil
	case "refresh":
		if err := st.app.session.Refresh(ctx); err != nil {
			return false, err
		}

		st.showTop(o)

		return false, nil
	default:
		o.Println("unknown command:", cmd, "(:help for commands)")

		return false, nil
	}
}

// showTop prints the priority slice of the current view: the most relevant
// matches appear immediately, with a count of what :ls would add.
func (st *shellState) showTop(o *IO) {
	st.shown = st.shown[:0]

	view := st.app.session.View()

	for b := range st.app.session.ViewBatches() {
		st.printBatch(o, b)

		if b.Priority {
			break
		}
	}

	if rest := len(view) - len(st.shown); rest > 0 {
		o.Printf("... %d more (:ls to show all)\n", rest)
	}

	if len(view) == 0 {
		o.Println("(no matches)")
	}
}

// showAll streams every batch of the current view.
func (st *shellState) showAll(ctx context.Context, o *IO) {
	st.shown = st.shown[:0]

	for b := range st.app.session.Feed(ctx) {
		if b.Generation != st.app.session.Generation() {
			continue // stale feed, superseded mid-stream
		}

		st.printBatch(o, b)
	}
}

func (st *shellState) printBatch(o *IO, b folder.Batch) {
	for _, e := range b.Entries {
		st.shown = append(st.shown, e)

		marker := " "

		switch {
		case !e.Exists:
			marker = "!"
		case st.app.store.Opened(e.Key):
			marker = "*"
		}

		o.Printf("%3d %s %s\n", len(st.shown), marker, e.Path)
	}
}

func (st *shellState) open(ctx context.Context, o *IO, arg string) error {
	e, err := st.resolve(arg)
	if err != nil {
		return err
	}

	if err := launchOpener(ctx, st.app.cfg.Opener, e.Path); err != nil {
		return err
	}

	if err := st.app.session.NotifyOpened(e.Path); err != nil {
		return err
	}

	o.Println("opened:", e.Path)
	st.showTop(o)

	return nil
}

func (st *shellState) preview(o *IO, arg string) error {
	e, err := st.resolve(arg)
	if err != nil {
		return err
	}

	listing, err := folder.ScanDir(e.Path, st.app.cfg.ListingCap)
	if err != nil {
		return err
	}

	nameWidth := 0

	for _, item := range listing.Entries {
		if w := runewidth.StringWidth(item.Name); w > nameWidth {
			nameWidth = w
		}
	}

	for _, item := range listing.Entries {
		o.Printf("%s  %-5s %8s\n",
			runewidth.FillRight(item.Name, nameWidth), item.DisplayType(), item.DisplaySize())
	}

	if listing.Truncated {
		o.Printf("... %d more items\n", listing.Total-len(listing.Entries))
	}

	return nil
}

var errBadResultNumber = errors.New("expected a result number from the last listing")

func (st *shellState) resolve(arg string) (*folder.Entry, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(st.shown) {
		return nil, errBadResultNumber
	}

	return st.shown[n-1], nil
}
