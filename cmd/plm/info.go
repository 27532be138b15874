package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/plm/internal/app"
	"github.com/felixgeelhaar/plm/internal/ui"
)

// Output formats of `plm info`.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var (
	infoFormat      string
	infoMarketplace string
)

var infoCmd = &cobra.Command{
	Use:   "info <plugin>[@marketplace]",
	Short: "Show details of an installed plugin",
	Long: `Show the manifest, installation source, components and deployment
status of one cached plugin.

Without a marketplace every marketplace is searched; a name found in
more than one must be qualified.

Examples:
  plm info demo
  plm info demo@team --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().StringVarP(&infoFormat, "format", "f", formatTable, "output format: table, json or yaml")
	infoCmd.Flags().StringVarP(&infoMarketplace, "marketplace", "m", "", "marketplace the plugin belongs to")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(strings.TrimSpace(infoFormat))
	switch format {
	case formatTable, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown output format %q (use table, json or yaml)", infoFormat)
	}

	ref, err := parseRef(args[0], infoMarketplace)
	if err != nil {
		return err
	}
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	m, err := env.manager()
	if err != nil {
		return err
	}
	detail, err := m.PluginInfo(cmd.Context(), ref.Name, ref.Marketplace)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	case formatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(detail); err != nil {
			return err
		}
		return enc.Close()
	default:
		return printPluginDetail(out, env.styles, detail)
	}
}

func printPluginDetail(out io.Writer, styles ui.Styles, d *app.PluginDetail) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	section := func(title string) {
		_, _ = fmt.Fprintln(w, styles.Header.Render(title))
	}
	row := func(field, value string) {
		if value == "" {
			value = "-"
		}
		_, _ = fmt.Fprintf(w, "  %s\t%s\n", field, value)
	}

	_, _ = fmt.Fprintln(w, styles.Title.Render("Plugin "+d.Name))
	row("Name", d.Name)
	row("Version", d.Version)
	row("Description", d.Description)

	if d.Author != nil {
		section("Author")
		row("Name", d.Author.Name)
		if d.Author.Email != "" {
			row("Email", d.Author.Email)
		}
		if d.Author.URL != "" {
			row("URL", d.Author.URL)
		}
	}

	section("Installation")
	installed := d.InstalledAt
	if installed == "" {
		installed = "N/A"
	}
	row("Installed At", installed)
	row("Source", d.Source.String())

	section("Components")
	row("Skills", listOrNone(d.Components.Skills))
	row("Agents", listOrNone(d.Components.Agents))
	row("Commands", listOrNone(d.Components.Commands))
	row("Instructions", listOrNone(d.Components.Instructions))
	row("Hooks", listOrNone(d.Components.Hooks))

	section("Deployment")
	status := styles.Muted.Render("disabled")
	if d.Enabled {
		status = styles.Success.Render("enabled")
	}
	row("Status", status)
	row("Cache Path", d.CachePath)

	return w.Flush()
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
