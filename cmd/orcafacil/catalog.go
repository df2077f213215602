package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the product catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored catalog with a TSV or XLSX file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogImport,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored catalog",
	Args:  cobra.NoArgs,
	RunE:  runCatalogShow,
}

func init() {
	catalogCmd.AddCommand(catalogImportCmd, catalogShowCmd)
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.importCatalog(ctx, args[0])
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no catalog rows found in %s", args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "catalog imported: %d items\n", n)
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	w := cmd.OutOrStdout()
	for i, item := range a.holder.Current().Items() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\n", i, item.ID, item.Description, item.Price)
	}
	return nil
}
