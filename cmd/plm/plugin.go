package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/plm/internal/app"
	"github.com/felixgeelhaar/plm/internal/domain/marketplace"
	"github.com/felixgeelhaar/plm/internal/domain/plugin"
	"github.com/felixgeelhaar/plm/internal/domain/target"
	"github.com/felixgeelhaar/plm/internal/ui"
)

// defaultLocalMarketplace is where `install <dir>` caches plugins unless
// --marketplace says otherwise.
const defaultLocalMarketplace = "local"

var (
	pluginMarketplace string
	installForce      bool
	uninstallForce    bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List installed plugins",
	Long:    `Display every cached plugin with its version, components and whether it is enabled in this project.`,
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var installCmd = &cobra.Command{
	Use:   "install <dir>",
	Short: "Install a plugin from a local directory",
	Long: `Copy a plugin directory into the plugin cache and place its components
into every enabled target.

Examples:
  plm install ./my-plugin
  plm install ./my-plugin --marketplace team --force`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

var enableCmd = &cobra.Command{
	Use:   "enable <plugin>[@marketplace]",
	Short: "Place a cached plugin into the enabled targets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPluginAction(cmd, args[0], "Enabled", func(m *app.Manager, ref plugin.Ref) target.OperationResult {
			return m.EnablePlugin(cmd.Context(), ref.Name, ref.Marketplace)
		})
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <plugin>[@marketplace]",
	Short: "Remove a plugin's components from the enabled targets",
	Long:  `Remove a plugin's components from the enabled targets. The plugin stays in the cache.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPluginAction(cmd, args[0], "Disabled", func(m *app.Manager, ref plugin.Ref) target.OperationResult {
			return m.DisablePlugin(cmd.Context(), ref.Name, ref.Marketplace)
		})
	},
}

var uninstallCmd = &cobra.Command{
	Use:     "uninstall <plugin>[@marketplace]",
	Aliases: []string{"remove", "rm"},
	Short:   "Disable a plugin and delete it from the cache",
	Args:    cobra.ExactArgs(1),
	RunE:    runUninstall,
}

func init() {
	for _, cmd := range []*cobra.Command{installCmd, enableCmd, disableCmd, uninstallCmd} {
		cmd.Flags().StringVarP(&pluginMarketplace, "marketplace", "m", "", "marketplace the plugin belongs to")
	}
	installCmd.Flags().BoolVarP(&installForce, "force", "f", false, "allow replacing a newer cached version")
	uninstallCmd.Flags().BoolVarP(&uninstallForce, "force", "f", false, "skip the confirmation prompt")

	rootCmd.AddCommand(listCmd, installCmd, enableCmd, disableCmd, uninstallCmd)
}

// parseRef reads "name" or "name@marketplace". The --marketplace flag
// wins over the suffix.
func parseRef(arg, flagMarketplace string) (plugin.Ref, error) {
	name, mp, _ := strings.Cut(strings.TrimSpace(arg), "@")
	if flagMarketplace != "" {
		mp = flagMarketplace
	}
	if err := plugin.ValidateName(name); err != nil {
		return plugin.Ref{}, err
	}
	if mp != "" {
		if err := marketplace.ValidateName(mp); err != nil {
			return plugin.Ref{}, err
		}
	}
	return plugin.Ref{Name: name, Marketplace: mp}, nil
}

func runList(cmd *cobra.Command, _ []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	m, err := env.manager()
	if err != nil {
		return err
	}
	plugins, err := m.ListInstalledPlugins(cmd.Context())
	if err != nil {
		return err
	}
	return printPlugins(cmd.OutOrStdout(), env.styles, plugins)
}

func printPlugins(out io.Writer, styles ui.Styles, plugins []app.PluginSummary) error {
	if len(plugins) == 0 {
		_, _ = fmt.Fprintln(out, "No plugins installed.")
		_, _ = fmt.Fprintln(out, "")
		_, _ = fmt.Fprintln(out, "Install plugins using:")
		_, _ = fmt.Fprintln(out, "  plm install <dir>")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tMARKETPLACE\tVERSION\tSTATUS\tCOMPONENTS")
	for _, p := range plugins {
		status := "disabled"
		if p.Enabled {
			status = "enabled"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.Name,
			p.Source(),
			p.Version,
			status,
			componentSummary(p),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, styles.Muted.Render(fmt.Sprintf("%d plugin(s)", len(plugins))))
	return nil
}

func componentSummary(p app.PluginSummary) string {
	parts := make([]string, 0, 5)
	add := func(label string, names []string) {
		if len(names) > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", len(names), label))
		}
	}
	add("skills", p.Skills)
	add("agents", p.Agents)
	add("commands", p.Commands)
	add("instructions", p.Instructions)
	add("hooks", p.Hooks)
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func runInstall(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	m, err := env.manager()
	if err != nil {
		return err
	}

	mp := pluginMarketplace
	if mp == "" {
		mp = defaultLocalMarketplace
	}
	if err := marketplace.ValidateName(mp); err != nil {
		return err
	}
	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving plugin directory: %w", err)
	}
	manifest, err := plugin.LoadManifest(env.fs, dir)
	if err != nil {
		return err
	}

	result := m.InstallPlugin(cmd.Context(), dir, mp, installForce)
	ref := plugin.Ref{Marketplace: mp, Name: manifest.Name}
	return reportResult(cmd.OutOrStdout(), env.styles, "Installed", ref.String()+" "+manifest.Version, result)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	ref, err := parseRef(args[0], pluginMarketplace)
	if err != nil {
		return err
	}
	if !uninstallForce && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Uninstall %s and delete it from the cache?", ref)) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return nil
	}
	return runPluginAction(cmd, args[0], "Uninstalled", func(m *app.Manager, ref plugin.Ref) target.OperationResult {
		return m.UninstallPlugin(cmd.Context(), ref.Name, ref.Marketplace, uninstallForce)
	})
}

func runPluginAction(cmd *cobra.Command, arg, verb string, do func(*app.Manager, plugin.Ref) target.OperationResult) error {
	ref, err := parseRef(arg, pluginMarketplace)
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
	return reportResult(cmd.OutOrStdout(), env.styles, verb, ref.String(), do(m, ref))
}

// reportResult prints the per-target effects. A failed result is returned
// as an error so that it is printed once and the exit code is non-zero.
func reportResult(out io.Writer, styles ui.Styles, verb, subject string, result target.OperationResult) error {
	if result.Success {
		_, _ = fmt.Fprintf(out, "%s %s %s (%d components)\n",
			styles.Success.Render("✓"), verb, subject, result.Affected.TotalComponents())
	}
	for _, e := range result.Affected.Effects {
		_, _ = fmt.Fprintf(out, "  %s %-12s %d\n", styles.Success.Render("+"), e.Target, e.ComponentCount)
	}
	if result.Success {
		return nil
	}
	return fmt.Errorf("%s: %w", subject, result.Err())
}
