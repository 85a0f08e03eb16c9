package main

import (
	"context"
	"fmt"
	"strings"

	"promptvault/cmd/vault/ui"
	"promptvault/internal/transfer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportOut     string
	importConfirm bool
)

// exportCmd downloads the full prompt collection as JSON
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all prompts to a JSON file",
	Long: `Download the complete prompt collection, including version history,
and write it as pretty-printed JSON. The default file name is
prompts.json in the current directory.`,
	RunE: runExport,
}

// importCmd restores prompts from a previously exported file
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import prompts from an exported JSON file",
	Long: `Read an exported snapshot, show what would be imported, and upload
it after confirmation. Pass --yes to skip the preview prompt.

Files written by older exports that misspelled the tags field are
repaired on the way in.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runExport(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	blob, err := env.client.ExportAll(ctx)
	if err != nil {
		return err
	}
	path, err := transfer.WriteExport(exportOut, blob)
	if err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	logger.Info("export written", zap.String("path", path))
	fmt.Printf("Exported prompts to %s\n", path)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}

	prompts, err := transfer.ParseFile(args[0])
	if err != nil {
		return err
	}
	if len(prompts) == 0 {
		fmt.Println("Nothing to import.")
		return nil
	}

	table := ui.NewTable(fmt.Sprintf("Import preview (%d prompts)", len(prompts)), "TITLE", "TAGS", "VERSIONS")
	for _, p := range prompts {
		table.AddRow(p.Title, strings.Join(p.Tags, ", "), fmt.Sprintf("%d", len(p.Versions)))
	}
	fmt.Println(table.View(ui.NewStyles(ui.ThemeByName(env.cfg.Theme))))

	if !importConfirm {
		answer, err := promptLine("Import these prompts? [y/N] ")
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			fmt.Println("Import cancelled.")
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if err := env.client.ImportAll(ctx, prompts); err != nil {
		return err
	}
	fmt.Printf("Imported %d prompts.\n", len(prompts))
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file or directory (default prompts.json)")
	importCmd.Flags().BoolVarP(&importConfirm, "yes", "y", false, "Skip the confirmation prompt")
}
