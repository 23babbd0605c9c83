package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/cruderly/wallie/pkg/i18n"
)

// errMissingKeys is returned by `i18n check` so the process exits non-zero.
var errMissingKeys = errors.New("translations are incomplete")

func (c *CLI) i18nCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "i18n",
		Short: "Inspect the translation dictionaries",
	}

	cmd.AddCommand(c.i18nCheckCommand())
	cmd.AddCommand(c.i18nGetCommand())

	return cmd
}

func (c *CLI) i18nCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report keys missing from any locale",
		Long: `Compare the embedded dictionaries and list, per locale, the keys that
another locale defines but it does not. Exits non-zero if any are missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := i18n.Embedded()
			if err != nil {
				return err
			}
			return checkCatalog(cmd, catalog)
		},
	}
}

func checkCatalog(cmd *cobra.Command, catalog *i18n.Catalog) error {
	out := cmd.OutOrStdout()
	total := len(catalog.Keys())
	missing := catalog.Missing()

	fmt.Fprintln(out, missingTable(total, missing))
	if len(missing) == 0 {
		printSuccess(out, "All %d locales define all %d keys", len(i18n.Supported), total)
		return nil
	}
	for _, l := range i18n.Supported {
		for _, k := range missing[l] {
			printDetail(out, "%s: %s", l, k)
		}
	}
	printError(cmd.ErrOrStderr(), "%d locale(s) are missing keys", len(missing))
	return errMissingKeys
}

func missingTable(total int, missing map[i18n.Locale][]string) *table.Table {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("LOCALE", "KEYS", "MISSING", "FIRST MISSING").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return cellStyle
		})

	for _, l := range i18n.Supported {
		keys := missing[l]
		first := StyleDim.Render("-")
		if len(keys) > 0 {
			first = keys[0]
		}
		count := fmt.Sprint(len(keys))
		if len(keys) > 0 {
			count = styleIconError.Render(count)
		}
		t.Row(strings.ToUpper(string(l)), fmt.Sprint(total-len(keys)), count, first)
	}
	return t
}

func (c *CLI) i18nGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a key in every locale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := i18n.Embedded()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, l := range i18n.Supported {
				d := catalog.For(l)
				value := d.T(args[0])
				if !d.Has(args[0]) {
					value = StyleWarning.Render(value + " (missing)")
				}
				printKeyValue(out, string(l), value)
			}
			return nil
		},
	}
}
