package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/pocketbase/pocketbase"
	"github.com/spf13/cobra"

	"marcenaria/bom"
	"marcenaria/catalog"
	"marcenaria/collections"
	"marcenaria/config"
)

var errCatalogInvalid = errors.New("catalog has errors")

// newCatalogCheckCmd validates a catalog strictly: every formula, reference
// and price record. Without flags it checks the configured or embedded file.
func newCatalogCheckCmd(app *pocketbase.PocketBase, cfg config.Config) *cobra.Command {
	var (
		path   string
		stored bool
	)

	cmd := &cobra.Command{
		Use:   "catalog-check",
		Short: "Validate catalog formulas, references and prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				file *catalog.File
				err  error
			)
			switch {
			case stored:
				collections.Setup(app)
				file, err = collections.LoadCatalog(app)
			case path != "":
				file, err = catalog.LoadFile(path)
			default:
				file, err = sourceCatalog(cfg)
			}
			if err != nil {
				return err
			}
			return reportDiagnostics(cmd.OutOrStdout(), file.Validate())
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "catalog YAML file to check")
	cmd.Flags().BoolVar(&stored, "stored", false, "check the catalog stored in the database")
	return cmd
}

// reportDiagnostics prints one line per diagnostic and fails when any of
// them is an error.
func reportDiagnostics(w io.Writer, diags []bom.Diagnostic) error {
	for _, d := range diags {
		fmt.Fprintln(w, d.String())
	}
	if bom.HasErrors(diags) {
		return errCatalogInvalid
	}
	fmt.Fprintf(w, "catalog ok (%d warnings)\n", len(diags))
	return nil
}
