package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/a1s/tabula/internal/aws"
	"github.com/a1s/tabula/internal/config"
	"github.com/a1s/tabula/internal/config/data"
	"github.com/a1s/tabula/internal/dataset"
	"github.com/a1s/tabula/internal/table"
)

var (
	showCmd = &cobra.Command{
		Use:   "show [PATH]",
		Short: "Print a dataset as a table",
		Long: `Print a JSON, JSON lines, YAML, CSV or TSV dataset as a table. PATH may be
a local file, - for standard input or an s3://bucket/key URI. A view may name
the path instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: withSession(runShow),
	}
	browseCmd = &cobra.Command{
		Use:   "browse [PATH]",
		Short: "Open a dataset in the interactive table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			*tabulaFlags.Browse = true
			return withSession(runShow)(cmd, args)
		},
	}
	htmlCmd = &cobra.Command{
		Use:   "html [PATH] DIR",
		Short: "Write a dataset as linked HTML pages",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  withSession(runHTML),
	}
	viewsCmd = &cobra.Command{
		Use:   "views",
		Short: "List the configured views",
		Args:  cobra.NoArgs,
		RunE:  withSession(runViews),
	}
)

func init() {
	rootCmd.AddCommand(showCmd, browseCmd, htmlCmd, viewsCmd)
}

func runShow(cmd *cobra.Command, s *session, args []string) error {
	l, err := datasetListing(cmd.Context(), s, args)
	if err != nil {
		return err
	}
	return present(cmd.Context(), s, l)
}

func runHTML(cmd *cobra.Command, s *session, args []string) error {
	dir := args[len(args)-1]
	l, err := datasetListing(cmd.Context(), s, args[:len(args)-1])
	if err != nil {
		return err
	}
	return writeSite(cmd.Context(), s, l, dir)
}

func runViews(cmd *cobra.Command, s *session, _ []string) error {
	names := s.cfg.Tabula.ViewNames()
	if len(names) == 0 {
		fmt.Fprintf(s.out, "no views configured in %s\n", config.AppConfigFile)
		return nil
	}
	for _, name := range names {
		v, err := s.cfg.Tabula.View(name)
		if err != nil {
			return err
		}
		cols := make([]string, 0, len(v.Columns))
		for _, c := range v.Columns {
			cols = append(cols, c.Name)
		}
		fmt.Fprintf(s.out, "%-20s %-30s %s\n", name, v.Path, strings.Join(cols, ","))
	}

	return nil
}

// datasetListing resolves the dataset path, its source and its columns from
// the arguments, the view and the flags.
func datasetListing(ctx context.Context, s *session, args []string) (listing[dataset.Record], error) {
	var (
		none listing[dataset.Record]
		view = &data.View{}
		name = "dataset"
	)
	if vn := *tabulaFlags.View; vn != "" {
		v, err := s.cfg.Tabula.View(vn)
		if err != nil {
			return none, err
		}
		view, name = v, vn
	}

	path := view.Path
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return none, fmt.Errorf("a dataset path is required")
	}
	if *tabulaFlags.View == "" {
		name = path
	}

	opts, err := sourceOptions(s, view, path)
	if err != nil {
		return none, err
	}
	src, err := dataset.NewSource(path, opts)
	if err != nil {
		return none, err
	}

	cols, err := datasetColumns(ctx, view, src)
	if err != nil {
		return none, err
	}
	s.log.Debug("dataset resolved",
		"path", path,
		"format", src.Format(),
		"columns", cols.Len(),
	)

	return listing[dataset.Record]{
		name:    name,
		columns: cols,
		source:  src,
		sort:    view.Sort,
		search:  view.Search,
	}, nil
}

func sourceOptions(s *session, view *data.View, path string) (dataset.Options, error) {
	var opts dataset.Options

	format := firstOf(*tabulaFlags.Format, view.Format)
	if format != "" {
		f, err := dataset.ParseFormat(format)
		if err != nil {
			return opts, err
		}
		opts.Format = f
	}
	opts.Selector = firstOf(*tabulaFlags.Selector, view.Selector)

	if len(*tabulaFlags.Columns) == 0 {
		schema, err := config.ViewSchema(view)
		if err != nil {
			return opts, err
		}
		opts.Schema = schema
	}

	if strings.HasPrefix(path, "s3://") {
		conn, err := s.connection()
		if err != nil {
			return opts, err
		}
		opts.Fetcher = aws.NewObjectFetcher(conn)
	}

	return opts, nil
}

// datasetColumns picks the columns from the flags, then the view, then the
// inferred dataset schema.
func datasetColumns(ctx context.Context, view *data.View, src *dataset.Source) (table.Columns, error) {
	if specs := *tabulaFlags.Columns; len(specs) > 0 {
		return config.ParseColumns(specs)
	}

	set, err := src.Load(ctx)
	if err != nil {
		return table.Columns{}, err
	}
	if len(view.Columns) == 0 {
		return set.Schema().Columns()
	}

	cols, err := config.ViewColumns(view)
	if err != nil {
		return table.Columns{}, err
	}
	if err := set.Schema().Check(cols); err != nil {
		return table.Columns{}, err
	}

	return cols, nil
}
