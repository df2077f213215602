package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var learnedCmd = &cobra.Command{
	Use:   "learned",
	Short: "Inspect and move learned matches",
}

var learnedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learned matches",
	Args:  cobra.NoArgs,
	RunE:  runLearnedList,
}

var learnedExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write learned matches as JSON to a file or stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLearnedExport,
}

var learnedImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge learned matches from an exported JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runLearnedImport,
}

var learnedDeleteCmd = &cobra.Command{
	Use:   "delete <text>",
	Short: "Forget the learned match for an order text",
	Args:  cobra.ExactArgs(1),
	RunE:  runLearnedDelete,
}

func init() {
	learnedCmd.AddCommand(learnedListCmd, learnedExportCmd, learnedImportCmd, learnedDeleteCmd)
}

func runLearnedList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.cache.Entries(ctx)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(w, "no learned matches")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.OriginalText, e.ProductID, e.ProductDescription, e.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func runLearnedExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	blob, err := a.cache.Export(ctx)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		_, err := cmd.OutOrStdout().Write(append(blob, '\n'))
		return err
	}
	return os.WriteFile(args[0], blob, 0o644)
}

func runLearnedImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	payload, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.cache.Import(ctx, payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d learned matches\n", n)
	return nil
}

func runLearnedDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	removed, err := a.cache.Delete(ctx, args[0])
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("no learned match for %q", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), "deleted")
	return nil
}
