package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/kk-code-lab/rclaunch/internal/assoc"
	"github.com/kk-code-lab/rclaunch/internal/config"
	"github.com/kk-code-lab/rclaunch/internal/rename"
	"github.com/spf13/cobra"
)

func newCheckCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration file",
		Long: `Compile the configuration and print favorites, associations and name
transforms. Entries that would be dropped at startup are listed.

Exit code: 0 if every entry compiled, 1 otherwise`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, warnings, err := global.load()
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), settings, warnings)
			if len(warnings) > 0 {
				return fmt.Errorf("%d configuration entries dropped", len(warnings))
			}
			return nil
		},
	}
}

func printSettings(w io.Writer, settings *config.Settings, warnings []config.Warning) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	cyan.Fprintln(w, "Associations")
	printRules(w, "  ", settings.Global.Associations.Global)
	printTransforms(w, "  ", settings.Global.Transforms.Global)

	cyan.Fprintln(w, "Favorites")
	if len(settings.Favorites) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, fav := range settings.Favorites {
		root := fav.Root()
		if root == "" {
			root = "-"
		}
		green.Fprintf(w, "  %d ", fav.FavoriteID())
		fmt.Fprintf(w, "%s [%s] %s\n", fav.Title(), fav.Kind(), root)
		rules := fav.Rules()
		printRules(w, "      ", rules.Associations.Local)
		printTransforms(w, "      ", rules.Transforms.Local)
	}

	if len(warnings) == 0 {
		green.Fprintln(w, "Configuration OK")
		return
	}
	yellow.Fprintf(w, "Dropped %d entries\n", len(warnings))
	for _, warning := range warnings {
		yellow.Fprintf(w, "  %s\n", warning)
	}
}

func printRules(w io.Writer, indent string, rules []*assoc.Rule) {
	for _, rule := range rules {
		if rule.IsSentinel() {
			fmt.Fprintf(w, "%s(global associations)\n", indent)
			continue
		}
		killable := ""
		if rule.Killable {
			killable = " [killable]"
		}
		fmt.Fprintf(w, "%s%s -> %s%s\n", indent, rule.Pattern, strings.Join(rule.Command, " "), killable)
	}
}

func printTransforms(w io.Writer, indent string, rules []rename.Rule) {
	for _, rule := range rules {
		mode := "first"
		if rule.Global {
			mode = "all"
		}
		fmt.Fprintf(w, "%srename %s -> %q (%s)\n", indent, rule.Pattern, rule.Template, mode)
	}
}
