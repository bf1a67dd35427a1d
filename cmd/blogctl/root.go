package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sushihentaime/blogbook/internal/client"
)

type cli struct {
	server  string
	state   string
	verbose bool

	logger *slog.Logger
	client *client.Client
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "blogctl", "state.json")
}

func defaultServer() string {
	if s := os.Getenv("BLOGCTL_SERVER"); s != "" {
		return s
	}
	return "http://localhost:4000"
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
		w = colorable.NewColorable(f)
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	}))
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Read and write blogs on a blogbook server",
		Version:       fmt.Sprintf("%s - build %.7s @ %s", version, revision, date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&c.server, "server", defaultServer(), "blogbook server URL")
	root.PersistentFlags().StringVar(&c.state, "state", defaultStatePath(), "file holding the signed-in session")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(
		c.loginCmd(),
		c.signupCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.listCmd(),
		c.featuredCmd(),
		c.showCmd(),
		c.createCmd(),
		c.editCmd(),
		c.deleteCmd(),
	)

	return root
}

func (c *cli) setup(stderr io.Writer) error {
	c.logger = newLogger(stderr, c.verbose)

	api, err := client.NewAPI(&http.Client{Timeout: 15 * time.Second}, c.server)
	if err != nil {
		return err
	}

	c.client = client.New(api, client.NewGuard(client.NewFileStorage(c.state)), c.logger)
	c.logger.Debug("configured", slog.String("server", c.server), slog.String("state", c.state))

	return nil
}
