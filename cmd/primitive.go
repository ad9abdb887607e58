package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/prim/internal/session"
)

var saveCmd = &cobra.Command{
	Use:   "save <name> <selection...>",
	Short: "Save the selected geometry files as a new primitive",
	Args:  cobra.MinimumNArgs(2),
	RunE:  withApp(runSave),
}

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a primitive and its mesh and thumbnail",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runDelete),
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the primitives of the active library",
	Args:  cobra.NoArgs,
	RunE:  withApp(runList),
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a primitive's body and asset paths",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runShow),
}

var instanceCmd = &cobra.Command{
	Use:   "instance <name>",
	Short: "Import a primitive into the scene",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runInstance),
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	listCmd.Flags().String("filter", "", "only list names matching this glob")
	rootCmd.AddCommand(saveCmd, deleteCmd, listCmd, showCmd, instanceCmd)
}

func runSave(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
	name, selection := args[0], args[1:]
	lines, err := a.session.Save(ctx, name, selection)
	if err != nil {
		return err
	}
	a.printer.Saved(name, lines)
	return nil
}

func runDelete(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	name := args[0]
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		a.printer.Prompt(fmt.Sprintf("delete %s from %s? [y/N]", name, a.session.Current()))
		if !confirm(cmd) {
			a.printer.Info("cancelled")
			return nil
		}
	}
	removed, err := a.session.Delete(ctx, name)
	if err != nil {
		return err
	}
	a.printer.Deleted(name, removed)
	return nil
}

// confirm reads one line from stdin and reports whether it starts with y.
func confirm(cmd *cobra.Command) bool {
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y")
}

func runList(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
	cards, err := a.session.Primitives(ctx)
	if err != nil {
		return err
	}
	if pattern, _ := cmd.Flags().GetString("filter"); pattern != "" {
		g, err := glob.Compile(pattern)
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		cards = filterCards(cards, g)
	}
	a.printer.Primitives(cards)
	return nil
}

func filterCards(cards []session.Card, g glob.Glob) []session.Card {
	var out []session.Card
	for _, c := range cards {
		if g.Match(c.Name) {
			out = append(out, c)
		}
	}
	return out
}

func runShow(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
	card, body, err := a.session.Show(ctx, args[0])
	if err != nil {
		return err
	}
	a.printer.Show(card, body)
	return nil
}

func runInstance(ctx context.Context, a *app, _ *cobra.Command, args []string) error {
	entities, err := a.session.Instance(ctx, args[0])
	if err != nil {
		return err
	}
	a.printer.Instanced(args[0], entities)
	return nil
}
