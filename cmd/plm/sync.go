package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/plm/internal/domain/component"
	"github.com/felixgeelhaar/plm/internal/domain/sync"
	"github.com/felixgeelhaar/plm/internal/domain/target"
	"github.com/felixgeelhaar/plm/internal/ui"
)

var (
	syncFrom   string
	syncTo     string
	syncKinds  string
	syncScopes string
	syncDryRun bool
	syncDelete bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror placed components from one target into another",
	Long: `Copy every component placed for one target into another target's layout.

Components the destination cannot hold are reported as unsupported.
Identical components are skipped. With --delete, destination components
missing from the source are removed.

Examples:
  plm sync --from codex --to copilot
  plm sync --from copilot --to gemini --kind skill,agent --scope project --dry-run`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncFrom, "from", "", "source target")
	syncCmd.Flags().StringVar(&syncTo, "to", "", "destination target")
	syncCmd.Flags().StringVar(&syncKinds, "kind", "", "comma-separated kinds to sync (skill, agent, command, instruction)")
	syncCmd.Flags().StringVar(&syncScopes, "scope", "", "comma-separated scopes to sync (personal, project)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "show what would change without writing")
	syncCmd.Flags().BoolVar(&syncDelete, "delete", false, "remove destination components missing from the source")
	_ = syncCmd.MarkFlagRequired("from")
	_ = syncCmd.MarkFlagRequired("to")
	_ = syncCmd.RegisterFlagCompletionFunc("from", completeTargets)
	_ = syncCmd.RegisterFlagCompletionFunc("to", completeTargets)

	rootCmd.AddCommand(syncCmd)
}

func syncOptions() (sync.Options, error) {
	opts := sync.Options{DryRun: syncDryRun, Delete: syncDelete}
	for _, s := range splitList(syncKinds) {
		k, err := component.ParseKind(s)
		if err != nil {
			return sync.Options{}, err
		}
		opts.Kinds = append(opts.Kinds, k)
	}
	for _, s := range splitList(syncScopes) {
		scope, err := component.ParseScope(s)
		if err != nil {
			return sync.Options{}, err
		}
		opts.Scopes = append(opts.Scopes, scope)
	}
	return opts, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runSync(cmd *cobra.Command, _ []string) error {
	from, err := target.ParseID(syncFrom)
	if err != nil {
		return err
	}
	to, err := target.ParseID(syncTo)
	if err != nil {
		return err
	}
	opts, err := syncOptions()
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

	result, err := m.Sync(cmd.Context(), from, to, opts)
	if err != nil {
		return err
	}
	printSyncResult(cmd.OutOrStdout(), env.styles, result)
	return result.Err()
}

func printSyncResult(out io.Writer, styles ui.Styles, r *sync.Result) {
	title := fmt.Sprintf("Sync %s -> %s", r.From, r.To)
	if r.DryRun {
		title += " (dry run)"
	}
	_, _ = fmt.Fprintln(out, styles.Title.Render(title))

	line := func(style func(...string) string, mark string, c sync.PlacedComponent, note string) {
		text := fmt.Sprintf("  %s %-11s %-8s %s", mark, c.Kind, c.Scope, c.Entry)
		if note != "" {
			text += " (" + note + ")"
		}
		_, _ = fmt.Fprintln(out, style(text))
	}
	for _, c := range r.Created {
		line(styles.Create.Render, "+", c, "")
	}
	for _, c := range r.Updated {
		line(styles.Update.Render, "~", c, "")
	}
	for _, c := range r.Deleted {
		line(styles.Delete.Render, "-", c, "")
	}
	for _, c := range r.Unsupported {
		line(styles.Skip.Render, "!", c, "unsupported")
	}
	for _, f := range r.Failed {
		line(styles.Error.Render, "x", f.Component, f.Error)
	}

	verb := "synced"
	if r.DryRun {
		verb = "would sync"
	}
	_, _ = fmt.Fprintf(out, "%s: %d created, %d updated, %d deleted, %d unchanged, %d unsupported, %d failed\n",
		verb, len(r.Created), len(r.Updated), len(r.Deleted), len(r.Skipped), len(r.Unsupported), len(r.Failed))
}
