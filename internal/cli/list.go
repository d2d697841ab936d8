package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kk-code-lab/rclaunch/internal/config"
	"github.com/kk-code-lab/rclaunch/internal/lister"
	"github.com/kk-code-lab/rclaunch/internal/textutil"
	"github.com/spf13/cobra"
)

func newListCommand(global *globalOptions) *cobra.Command {
	var favorite int

	cmd := &cobra.Command{
		Use:   "list [PATH]",
		Short: "Print one listing with its associations",
		Long: `Print the entries the launcher would show, with the command each file
would be opened with. Without --favorite, PATH (default: the working
directory) is listed with the global rules.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, _, err := global.load()
			if err != nil {
				return err
			}
			rel := ""
			if len(args) == 1 {
				rel = args[0]
			}
			l, dir, err := resolveListing(settings, favorite, rel)
			if err != nil {
				return err
			}
			printListing(cmd.OutOrStdout(), l, dir)
			return nil
		},
	}
	cmd.Flags().IntVarP(&favorite, "favorite", "f", 0, "list favorite N; PATH is then relative to its root")
	return cmd
}

func resolveListing(settings *config.Settings, favorite int, arg string) (lister.Lister, string, error) {
	if favorite > 0 {
		l := settings.Favorite(favorite)
		if l == nil {
			return nil, "", fmt.Errorf("favorite %d is not configured", favorite)
		}
		return l, lister.CleanPath(arg), nil
	}

	dir := arg
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("working directory: %w", err)
		}
		dir = cwd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	return lister.NewDefault("/", settings.Global), lister.CleanPath(abs), nil
}

func printListing(w io.Writer, l lister.Lister, dir string) {
	entries := l.ListDir(dir)

	width := 0
	for _, e := range entries {
		if n := textutil.DisplayWidth(textutil.SanitizeTerminalText(e.DisplayName)); n > width {
			width = n
		}
	}

	for _, e := range entries {
		name := textutil.SanitizeTerminalText(e.DisplayName)
		switch {
		case e.IsParent():
			fmt.Fprintln(w, name)
		case e.IsDir:
			fmt.Fprintf(w, "%s/\n", name)
		case e.Association != nil:
			argv := e.Association.Argv(l.ActualFile(dir, e))
			fmt.Fprintf(w, "%s  %s\n", textutil.PadRight(name, width), strings.Join(argv, " "))
		default:
			fmt.Fprintln(w, name)
		}
	}
}
