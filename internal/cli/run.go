package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"rf/internal/folder"
	"rf/internal/index"
)

const (
	minArgs      = 2
	consumedOne  = 1
	consumedTwo  = 2
	consumedNone = 0
	helpFlag     = "--help"
)

// app bundles what every command needs: the resolved config, the loaded
// store and a session around it. There is no package-level state; commands
// receive the app explicitly.
type app struct {
	cfg     folder.Config
	store   *folder.Store
	session *folder.Session
	stdin   io.Reader
}

// newApp loads the history store and builds a session. A corrupt store file
// surfaces as a warning, not a failure.
func newApp(cfg folder.Config, o *IO, stdin io.Reader) *app {
	store := folder.LoadStore(cfg.HistoryFile)
	if store.LoadNotice != "" {
		o.Warn(store.LoadNotice)
	}

	session := folder.NewSession(store, folder.RecentDir{Dir: cfg.RecentDirAbs}, folder.SessionOptions{
		PrioritySlice: cfg.PrioritySlice,
		BatchSize:     cfg.BatchSize,
		ListingCap:    cfg.ListingCap,
	})

	return &app{cfg: cfg, store: store, session: session, stdin: stdin}
}

// openIndex opens the scan cache. Cache failures degrade to direct scans
// with a warning; they never fail the command.
func (a *app) openIndex(ctx context.Context, o *IO) *index.Index {
	if err := os.MkdirAll(a.cfg.DataDirAbs, 0o750); err != nil {
		o.Warnf("cannot create data dir %s: %v (scan cache disabled)", a.cfg.DataDirAbs, err)

		return nil
	}

	idx, err := index.Open(ctx, a.cfg.IndexFile)
	if err != nil {
		o.Warnf("cannot open scan cache %s: %v (scanning directly)", a.cfg.IndexFile, err)

		return nil
	}

	return idx
}

// cache returns idx as a folder.ScanCache, handling the typed-nil pitfall.
func cache(idx *index.Index) folder.ScanCache {
	if idx == nil {
		return nil
	}

	return idx
}

// Run is the main entry point. Returns exit code.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string) int {
	if len(args) < minArgs {
		printUsage(out)

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	cfg, err := folder.LoadConfig(folder.LoadConfigInput{
		WorkDirOverride: flags.workDir,
		ConfigPath:      flags.configPath,
		DataDirOverride: flags.dataDir,
		RecentOverride:  flags.recentDir,
		Env:             env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if len(flags.remaining) == 0 {
		printUsage(out)

		return 0
	}

	name := flags.remaining[0]
	if name == "-h" || name == helpFlag {
		printUsage(out)

		return 0
	}

	o := NewIO(out, errOut)
	a := newApp(cfg, o, in)

	for _, cmd := range commands(a) {
		if cmd.Name() != name {
			continue
		}

		if code := cmd.Run(context.Background(), o, flags.remaining[1:]); code != 0 {
			return code
		}

		return o.Finish()
	}

	fprintln(errOut, "error: unknown command:", name)
	printUsage(errOut)

	return 1
}

// commands builds the command set over one app.
func commands(a *app) []*Command {
	return []*Command{
		lsCmd(a),
		openCmd(a),
		commentCmd(a),
		classifyCmd(a),
		refreshCmd(a),
		shellCmd(a),
		printConfigCmd(a),
	}
}

type globalFlags struct {
	workDir    string
	configPath string
	dataDir    string
	recentDir  string
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	// -C/--cwd flag (work directory)
	if (arg == "-C" || arg == "--cwd") && idx+1 < len(args) {
		flags.workDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "-C"); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	// -c/--config flag
	if arg == "-c" || arg == "--config" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", folder.ErrFlagRequiresArg, arg)
		}

		flags.configPath = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return consumedOne, nil
	}

	// --data-dir flag
	if arg == "--data-dir" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", folder.ErrFlagRequiresArg, arg)
		}

		flags.dataDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--data-dir="); ok {
		flags.dataDir = after

		return consumedOne, nil
	}

	// --recent-dir flag
	if arg == "--recent-dir" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", folder.ErrFlagRequiresArg, arg)
		}

		flags.recentDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--recent-dir="); ok {
		flags.recentDir = after

		return consumedOne, nil
	}

	// -h/--help flags
	if arg == "-h" || arg == helpFlag {
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	// Unknown flag
	if strings.HasPrefix(arg, "-") && arg != "-" {
		return consumedNone, fmt.Errorf("%w: %s", folder.ErrUnknownFlag, arg)
	}

	// Not a flag
	return consumedNone, nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer) {
	fprintln(w, `rf - recent folders, ranked

Usage: rf [options] <command> [args]

Options:
  -C, --cwd <dir>      Run as if started in <dir>
  -c, --config <file>  Use specified config file
  --data-dir <dir>     Override the data directory
  --recent-dir <dir>   Override the recent-items directory

Commands:`)

	for _, cmd := range commands(nil) {
		fprintln(w, cmd.HelpLine())
	}
}
