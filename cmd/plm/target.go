package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/config"
	"github.com/felixgeelhaar/plm/internal/domain/target"
)

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Manage the targets plugins are placed into",
}

var targetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known targets and whether they are enabled",
	Args:  cobra.NoArgs,
	RunE:  runTargetList,
}

var targetAddCmd = &cobra.Command{
	Use:               "add <target>",
	Short:             "Enable a target",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTargets,
	RunE:              runTargetAdd,
}

var targetRemoveCmd = &cobra.Command{
	Use:               "remove <target>",
	Aliases:           []string{"rm"},
	Short:             "Disable a target",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTargets,
	RunE:              runTargetRemove,
}

func init() {
	targetCmd.AddCommand(targetListCmd, targetAddCmd, targetRemoveCmd)
	rootCmd.AddCommand(targetCmd)
}

func runTargetList(cmd *cobra.Command, _ []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	enabled := make(map[string]bool, len(env.cfg.Targets))
	for _, t := range env.cfg.Targets {
		enabled[t] = true
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TARGET\tNAME\tSTATUS\tCOMPONENTS")
	for _, t := range target.All(env.fs) {
		status := "disabled"
		if enabled[t.ID().String()] {
			status = "enabled"
		}
		var kinds []string
		for _, k := range component.Kinds {
			if t.Supports(k) {
				kinds = append(kinds, k.Plural())
			}
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID(), t.DisplayName(), status, joinOrDash(kinds))
	}
	return w.Flush()
}

func runTargetAdd(cmd *cobra.Command, args []string) error {
	id, err := target.ParseID(args[0])
	if err != nil {
		return err
	}
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if env.cfg.AddTarget(id) == config.AlreadyExists {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Target %s is already enabled.\n", id)
		return nil
	}
	if err := env.save(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Enabled target %s\n", env.styles.Success.Render("✓"), id)
	return nil
}

func runTargetRemove(cmd *cobra.Command, args []string) error {
	id, err := target.ParseID(args[0])
	if err != nil {
		return err
	}
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if env.cfg.RemoveTarget(id) == config.NotFound {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Target %s is not enabled.\n", id)
		return nil
	}
	if err := env.save(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Disabled target %s\n", env.styles.Success.Render("✓"), id)
	return nil
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
