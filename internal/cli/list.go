package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/macropower/aspects/pkg/aspect"
	"github.com/macropower/aspects/pkg/catalog"
	"github.com/macropower/aspects/pkg/config"
	"github.com/macropower/aspects/pkg/expr"
)

const outputText = "text"

var (
	nameStyle  = lipgloss.NewStyle().Bold(true)
	tasteStyle = lipgloss.NewStyle().Faint(true)
)

type ListArgs struct {
	*RootArgs

	Filter string
	Output string
	Tree   bool
}

func NewListArgs(rootArgs *RootArgs) *ListArgs {
	return &ListArgs{
		RootArgs: rootArgs,
	}
}

func (la *ListArgs) AddFlags(cmd *cobra.Command) {
	formats := append([]string{outputText}, catalog.AllFormats...)

	cmd.Flags().StringVarP(&la.Filter, "filter", "f", "", "CEL expression selecting aspects, e.g. 'aspect.leaf'")
	cmd.Flags().StringVarP(&la.Output, "output", "o", outputText, fmt.Sprintf("Output format, one of: %s", formats))
	cmd.Flags().BoolVar(&la.Tree, "tree", false, "Render the aspect tree; with a filter, only matches and their ancestors")

	err := cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(formats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewListCmd(rootArgs *RootArgs) *cobra.Command {
	la := NewListArgs(rootArgs)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List aspects with the tastes in effect for them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return list(cmd, la)
		},
	}
	la.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func list(cmd *cobra.Command, la *ListArgs) error {
	ctx, span := startSpan(cmd.Context(), "list")
	defer span.End()

	r, err := registry()
	if err != nil {
		return err
	}

	tf, err := discoverTasteFile(ctx, la.RootArgs)
	if err != nil {
		return err
	}

	res := tf.resolve(ctx, r)

	nodes := r.Nodes()
	if la.Filter != "" {
		env, err := expr.NewEnvironment()
		if err != nil {
			return fmt.Errorf("create expression environment: %w", err)
		}

		f, err := env.NewFilter(la.Filter)
		if err != nil {
			return fmt.Errorf("invalid filter: %w", err)
		}

		nodes, err = f.Select(r, res.Values)
		if err != nil {
			return fmt.Errorf("filter aspects: %w", err)
		}
	}

	if la.Tree {
		mustN(fmt.Fprintln(cmd.OutOrStdout(), renderTree(res, nodes)))
		return nil
	}

	if la.Output == outputText {
		mustN(fmt.Fprintln(cmd.OutOrStdout(), renderTable(res, nodes)))
		return nil
	}

	format, err := catalog.ParseFormat(la.Output)
	if err != nil {
		return fmt.Errorf("invalid argument: %w", err)
	}

	return encode(cmd, catalog.List(r, nodes, catalog.WithResolution(res), catalog.WithSummary()), format)
}

// ownTastes formats the tastes declared by n with their effective values.
func ownTastes(res *config.Resolution, n *aspect.Node) string {
	values := res.Values(n)

	parts := make([]string, 0, len(n.TasteNames()))
	for _, name := range n.TasteNames() {
		parts = append(parts, fmt.Sprintf("%s=%s", name, values[name].Quote()))
	}

	return strings.Join(parts, " ")
}

func renderTable(res *config.Resolution, nodes []*aspect.Node) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers("ASPECT", "PATH", "TASTES")

	for _, n := range nodes {
		t.Row(n.Name(), n.String(), ownTastes(res, n))
	}

	return t.String()
}

// renderTree renders the registry tree, keeping only the given nodes and
// their ancestors.
func renderTree(res *config.Resolution, nodes []*aspect.Node) string {
	keep := map[*aspect.Node]bool{}
	for _, n := range nodes {
		for p := n; p != nil && !keep[p]; p = p.Parent() {
			keep[p] = true
		}
	}

	var build func(n *aspect.Node) *tree.Tree
	build = func(n *aspect.Node) *tree.Tree {
		label := nameStyle.Render(n.Name())
		if tastes := ownTastes(res, n); tastes != "" {
			label += " " + tasteStyle.Render(tastes)
		}

		t := tree.Root(label)
		for _, c := range n.Children() {
			if keep[c] {
				t.Child(build(c))
			}
		}

		return t
	}

	root := res.Registry().Root()
	if root == nil || !keep[root] {
		return ""
	}

	return build(root).Enumerator(tree.RoundedEnumerator).String()
}

// aspectCompletions completes aspect names with their paths.
func aspectCompletions(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	r, err := registry()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	completions := make([]cobra.Completion, 0, r.Len())
	for _, n := range r.Nodes() {
		completions = append(completions, cobra.CompletionWithDesc(n.Name(), n.String()))
	}

	return completions, cobra.ShellCompDirectiveNoFileComp
}

// tasteCompletions completes the taste names that can be set on the aspect
// named by the first argument.
func tasteCompletions(cmd *cobra.Command, args []string, s string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) != 1 {
		return aspectCompletions(cmd, args, s)
	}

	r, err := registry()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	n, err := r.LookupPath(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	scope := config.ScopeTastes(r, n)

	completions := make([]cobra.Completion, 0, len(scope))
	for _, name := range slices.Sorted(maps.Keys(scope)) {
		completions = append(completions, cobra.CompletionWithDesc(name, scope[name].Description()))
	}

	return completions, cobra.ShellCompDirectiveNoFileComp
}
