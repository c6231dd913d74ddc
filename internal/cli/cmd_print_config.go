package cli

import (
	"context"

	"rf/internal/folder"

	flag "github.com/spf13/pflag"
)

// printConfigCmd returns the print-config command.
func printConfigCmd(a *app) *Command {
	fs := flag.NewFlagSet("print-config", flag.ContinueOnError)

	return &Command{
		Flags: fs,
		Usage: "print-config",
		Short: "Show resolved configuration",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execPrintConfig(o, a)
		},
	}
}

func execPrintConfig(o *IO, a *app) error {
	formatted, err := folder.FormatConfig(a.cfg)
	if err != nil {
		return err
	}

	o.Println(formatted)

	o.Println("")
	o.Println("# Resolved:")
	o.Println("#   history:", a.cfg.HistoryFile)
	o.Println("#   scan cache:", a.cfg.IndexFile)
	o.Println("#   recent dir:", a.cfg.RecentDirAbs)

	o.Println("")
	o.Println("# Sources:")

	if a.cfg.Sources.Global != "" {
		o.Println("#   global:", a.cfg.Sources.Global)
	}

	if a.cfg.Sources.Project != "" {
		o.Println("#   project:", a.cfg.Sources.Project)
	}

	if a.cfg.Sources.Global == "" && a.cfg.Sources.Project == "" {
		o.Println("#   (using defaults only)")
	}

	return nil
}
