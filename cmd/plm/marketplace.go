package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/plm/internal/domain/marketplace"
)

var (
	marketplaceName string
	marketplacePath string
)

var marketplaceCmd = &cobra.Command{
	Use:     "marketplace",
	Aliases: []string{"mp"},
	Short:   "Manage registered plugin marketplaces",
	Long: `Register the GitHub repositories plugins are published from.

Registered names can be used as the marketplace of an installed plugin.

Examples:
  plm marketplace add acme/plugins
  plm marketplace add acme/monorepo --name acme --path plugins
  plm marketplace list
  plm marketplace remove acme`,
}

var marketplaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered marketplaces",
	Args:  cobra.NoArgs,
	RunE:  runMarketplaceList,
}

var marketplaceAddCmd = &cobra.Command{
	Use:   "add <owner/repo>",
	Short: "Register a marketplace",
	Args:  cobra.ExactArgs(1),
	RunE:  runMarketplaceAdd,
}

var marketplaceRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Unregister a marketplace",
	Args:    cobra.ExactArgs(1),
	RunE:    runMarketplaceRemove,
}

func init() {
	marketplaceAddCmd.Flags().StringVar(&marketplaceName, "name", "", "name to register under (default: repository name)")
	marketplaceAddCmd.Flags().StringVar(&marketplacePath, "path", "", "sub-directory of the repository holding the marketplace")

	marketplaceCmd.AddCommand(marketplaceListCmd, marketplaceAddCmd, marketplaceRemoveCmd)
	rootCmd.AddCommand(marketplaceCmd)
}

func runMarketplaceList(cmd *cobra.Command, _ []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	entries := env.cfg.MarketplaceRegistry().List()
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No marketplaces registered.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tSOURCE\tPATH")
	for _, e := range entries {
		path := e.SourcePath
		if path == "" {
			path = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.DisplaySource(), path)
	}
	return w.Flush()
}

func runMarketplaceAdd(cmd *cobra.Command, args []string) error {
	reg, err := marketplace.NewRegistration(args[0], marketplaceName, marketplacePath)
	if err != nil {
		return err
	}
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	registry := env.cfg.MarketplaceRegistry()
	if err := registry.Add(reg); err != nil {
		return err
	}
	env.cfg.SetMarketplaces(registry)
	if err := env.save(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Added marketplace %s (%s)\n",
		env.styles.Success.Render("✓"), reg.Name, reg.DisplaySource())
	return nil
}

func runMarketplaceRemove(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	registry := env.cfg.MarketplaceRegistry()
	if err := registry.Remove(args[0]); err != nil {
		return err
	}
	env.cfg.SetMarketplaces(registry)
	if err := env.save(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Removed marketplace %s\n", env.styles.Success.Render("✓"), args[0])
	return nil
}
