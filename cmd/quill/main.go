package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avitaltamir/quill/internal/app"
	"github.com/avitaltamir/quill/internal/config"
	"github.com/avitaltamir/quill/internal/debug"
	"github.com/avitaltamir/quill/internal/state"
	"github.com/avitaltamir/quill/internal/store"
)

var version = "dev"

func main() {
	app.Version = version

	showVersion := flag.Bool("v", false, "print the version and exit")
	debugSpec := flag.String("debug", "", `debug categories to log ("all" or e.g. "INDEX,GIT")`)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: quill [flags] [folder]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println("quill", version)
		return
	}

	cfg, cfgErr := config.Load()

	spec := *debugSpec
	if spec == "" && cfg.Debug {
		spec = "all"
	}
	if spec = debug.SpecFromEnv(spec); spec != "" {
		if dir, err := os.UserCacheDir(); err == nil {
			if err := debug.SetupFile(filepath.Join(dir, "quill", "quill.log"), spec); err != nil {
				fmt.Fprintln(os.Stderr, "quill:", err)
			}
		}
	}
	defer debug.Close()
	if cfgErr != nil {
		debug.Warn(debug.APP, "config not loaded, using defaults", cfgErr)
	}

	opts := app.Options{
		Config: cfg,
		State:  state.Load(),
		Recent: state.LoadRecent(),
	}
	if flag.NArg() > 0 {
		folder, err := filepath.Abs(flag.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, "quill:", err)
			os.Exit(1)
		}
		opts.Folder = folder
	}

	if path, err := store.DefaultPath(); err == nil {
		db, err := store.Open(path)
		if err != nil {
			debug.Warn(debug.STORE, "session store unavailable", err, "path", path)
		} else {
			defer db.Close()
			opts.Session = db
		}
	}

	p := tea.NewProgram(
		app.New(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
