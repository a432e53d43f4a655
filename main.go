package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sadopc/saati/internal/cli"
	"github.com/sadopc/saati/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{
		IsInteractive: func() bool {
			fd := os.Stdout.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
		RunTUI: func(app *cli.App) error {
			return tui.Run(app.Session)
		},
	}
	defer app.Close()

	return cli.NewRootCmd(app).Execute()
}
