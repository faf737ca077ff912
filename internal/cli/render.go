package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archdiagram/pkg/definition"
	"github.com/matzehuels/archdiagram/pkg/designs"
	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/render/nodelink"
)

// renderOpts holds the command-line flags shared by render and dot.
type renderOpts struct {
	file   string // definition file (.toml, .yaml, .yml) instead of a built-in design
	output string // output filename base; ".png" is optional
}

func (o *renderOpts) bindOutput(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output filename in the working directory (default: the design's filename)")
}

func (o *renderOpts) bindFile(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "render a TOML or YAML definition file instead of a built-in design")
}

// diagramOptions converts the flags to diagram options. The output name must
// be a bare filename; images are only ever written to the working directory.
func (o *renderOpts) diagramOptions() ([]diagram.Option, error) {
	if o.output == "" {
		return nil, nil
	}
	name := strings.TrimSuffix(o.output, "."+diagram.FormatPNG)
	if err := errors.ValidateFilename(name); err != nil {
		return nil, err
	}
	return []diagram.Option{diagram.WithFilename(name)}, nil
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [design]",
		Short: "Render a design or definition file to PNG",
		Long: `Render a built-in design (default "` + designs.DefaultKey + `") or, with --file, a
declarative TOML or YAML definition. The PNG image is written to the working
directory, replacing any previous file of the same name.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDesigns,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := designArg(args, opts)
			if err != nil {
				return err
			}
			return c.runRender(cmd, key, opts)
		},
	}

	opts.bindFile(cmd)
	opts.bindOutput(cmd)
	return cmd
}

// dotCommand creates the dot command, which prints the generated Graphviz
// source instead of rendering it.
func (c *CLI) dotCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:               "dot [design]",
		Short:             "Print the Graphviz DOT source of a design",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDesigns,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := designArg(args, opts)
			if err != nil {
				return err
			}
			d, err := opts.load(key)
			if err != nil {
				return err
			}
			dot, err := nodelink.ToDOT(d)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), dot)
			return err
		},
	}

	opts.bindFile(cmd)
	return cmd
}

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in designs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, d := range designs.All() {
				printKeyValue(w, d.Key, d.Title)
				printDetail(w, "%s", d.Description)
				printFile(w, d.Filename+"."+diagram.FormatPNG)
			}
			return nil
		},
	}
}

// runRender declares the selected diagram and saves it to the working
// directory.
func (c *CLI) runRender(cmd *cobra.Command, key string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	d, err := opts.load(key)
	if err != nil {
		return err
	}
	logger.Debug("declared diagram", "name", d.Name(), "file", d.Path())

	prog := newProgress(logger)
	spin := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering "+d.Name())
	spin.Start()
	path, err := d.Save(ctx, nodelink.NewRenderer())
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done("Rendered " + d.Filename())

	w := cmd.OutOrStdout()
	printSuccess(w, "Generated %s", StyleTitle.Render(d.Name()))
	s := d.Stats()
	printStats(w, s.Nodes, s.Clusters, s.Edges)
	printFile(w, path)
	return nil
}

// load declares the diagram named by key, or the definition file when one
// is given.
func (o *renderOpts) load(key string) (*diagram.Diagram, error) {
	extra, err := o.diagramOptions()
	if err != nil {
		return nil, err
	}
	if o.file != "" {
		def, err := definition.Load(o.file)
		if err != nil {
			return nil, err
		}
		return def.Compile(extra...)
	}
	design, err := designs.Lookup(key)
	if err != nil {
		return nil, err
	}
	return design.Diagram(extra...), nil
}

// designArg returns the design named on the command line, or the default.
func designArg(args []string, opts renderOpts) (string, error) {
	if len(args) == 0 {
		return designs.DefaultKey, nil
	}
	if opts.file != "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "cannot use both a design name (%s) and --file", args[0])
	}
	return args[0], nil
}

func completeDesigns(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return designs.Names(), cobra.ShellCompDirectiveNoFileComp
}
