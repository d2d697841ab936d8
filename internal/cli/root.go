// Package cli wires the rclaunch commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rclaunch/internal/app"
	"github.com/kk-code-lab/rclaunch/internal/config"
	"github.com/kk-code-lab/rclaunch/internal/instance"
	"github.com/kk-code-lab/rclaunch/internal/logging"
	"github.com/kk-code-lab/rclaunch/internal/remote"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

type globalOptions struct {
	configPath string
	socket     string
}

func (g *globalOptions) load() (*config.Settings, []config.Warning, error) {
	path := g.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}

// socketPath resolves the flag, the configured socket and the default in
// that order.
func (g *globalOptions) socketPath(settings *config.Settings) string {
	if g.socket != "" {
		return g.socket
	}
	if settings != nil && settings.Socket != "" {
		return settings.Socket
	}
	return remote.DefaultSocketPath()
}

type runOptions struct {
	verbose  bool
	logFile  string
	headless bool
	noRemote bool
	pageSize int
}

// NewRootCommand creates the rclaunch command tree.
func NewRootCommand() *cobra.Command {
	global := &globalOptions{}
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "rclaunch",
		Short: "Remote-controlled file browser and launcher",
		Long: `rclaunch browses favorite directories, open files and download
metadata with a handful of keys, and opens files with the program associated
with their name. It can be driven from the keyboard or, through a unix socket,
from a remote control daemon (see "rclaunch send").`,
		Version:      Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLauncher(cmd.Context(), global, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&global.configPath, "config", "c", "", "configuration file (default $XDG_CONFIG_HOME/rclaunch/config.yaml)")
	cmd.PersistentFlags().StringVar(&global.socket, "socket", "", "remote control socket path")

	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "log file used while the terminal UI runs")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "run without a terminal UI, controlled only through the socket")
	cmd.Flags().BoolVar(&opts.noRemote, "no-remote", false, "do not listen on the remote control socket")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "rows moved by page-up/page-down (default: visible rows)")

	cmd.AddCommand(newSendCommand(global))
	cmd.AddCommand(newCheckCommand(global))
	cmd.AddCommand(newListCommand(global))

	return cmd
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func runLauncher(parent context.Context, global *globalOptions, opts *runOptions) error {
	settings, warnings, err := global.load()
	if err != nil {
		return err
	}

	headless := opts.headless || !stdoutIsTerminal()
	logFile := opts.logFile
	if logFile == "" {
		logFile = settings.LogFile
	}
	closer, err := logging.Setup(logging.Options{
		Level:    settings.LogLevel,
		File:     logFile,
		Headless: headless,
		Verbose:  opts.verbose,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	for _, w := range warnings {
		logrus.WithField("entry", w.Where).WithError(w.Err).Warn("configuration entry dropped")
	}

	socket := ""
	if !opts.noRemote {
		socket = global.socketPath(settings)
		lock, err := instance.Acquire(instance.LockPath(socket))
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logrus.WithError(err).Warn("release instance lock")
			}
		}()
	} else if headless {
		return errors.New("headless mode needs the remote socket")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}

	// UTF-8 fallback keeps non-ASCII names readable on terminals with an
	// unknown charset.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	application, err := app.NewApplication(app.Options{
		Settings: settings,
		StartDir: cwd,
		Headless: headless,
		Socket:   socket,
		Watch:    settings.Watch,
		PageSize: opts.pageSize,
	})
	if err != nil {
		return err
	}
	defer application.Close()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logrus.WithFields(logrus.Fields{"headless": headless, "favorites": len(settings.Favorites)}).Info("rclaunch started")
	return application.Run(ctx)
}
