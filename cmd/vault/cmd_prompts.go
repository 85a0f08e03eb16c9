package main

import (
	"context"
	"fmt"
	"strings"

	"promptvault/cmd/vault/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	listArchived bool
	listSearch   string

	promptTitle string
	promptDesc  string
	promptTags  []string
)

// promptsCmd is the parent for non-interactive prompt operations
var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Manage prompts from the command line",
	Long: `Manage prompts without entering the dashboard.

Available subcommands:
  list    - List prompts (active by default, --archived for archived)
  create  - Create a new prompt
  update  - Record a new version of an existing prompt
  archive - Move a prompt to the archive
  restore - Bring an archived prompt back`,
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List prompts",
	RunE:  runPromptsList,
}

var promptsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new prompt",
	Long: `Create a new prompt. The title given here becomes the prompt's
permanent list label; later updates change the detail view but never
relabel the list entry.

Example:
  vault prompts create --title "Code review" --desc "Review this diff..." --tag go --tag review`,
	RunE: runPromptsCreate,
}

var promptsUpdateCmd = &cobra.Command{
	Use:   "update <prompt-id>",
	Short: "Record a new version of a prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptsUpdate,
}

var promptsArchiveCmd = &cobra.Command{
	Use:   "archive <prompt-id>",
	Short: "Move a prompt to the archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptsArchive,
}

var promptsRestoreCmd = &cobra.Command{
	Use:   "restore <prompt-id>",
	Short: "Restore an archived prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptsRestore,
}

func runPromptsList(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	logger.Debug("listing prompts",
		zap.Bool("archived", listArchived),
		zap.String("search", listSearch))

	summaries, err := env.client.ListPrompts(ctx, listSearch, listArchived)
	if err != nil {
		return err
	}

	title := "Active prompts"
	if listArchived {
		title = "Archived prompts"
	}
	table := ui.NewTable(title, "ID", "TITLE", "TAGS", "CREATED")
	for _, s := range summaries {
		table.AddRow(s.ID, s.Title, strings.Join(s.Tags, ", "), s.CreatedAt.Format("2006-01-02"))
	}
	fmt.Println(table.View(ui.NewStyles(ui.ThemeByName(env.cfg.Theme))))
	if len(summaries) == 0 {
		fmt.Println("No prompts found.")
	}
	return nil
}

func runPromptsCreate(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	if strings.TrimSpace(promptTitle) == "" {
		return fmt.Errorf("--title is required")
	}
	if strings.TrimSpace(promptDesc) == "" {
		return fmt.Errorf("--desc is required")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	created, err := env.client.CreatePrompt(ctx, promptTitle, promptDesc, promptTags)
	if err != nil {
		return err
	}
	logger.Info("prompt created", zap.String("id", created.PromptID))
	fmt.Printf("Created prompt %s (%q)\n", created.PromptID, created.Title)
	return nil
}

func runPromptsUpdate(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	if strings.TrimSpace(promptTitle) == "" {
		return fmt.Errorf("--title is required")
	}
	if strings.TrimSpace(promptDesc) == "" {
		return fmt.Errorf("--desc is required")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	updated, err := env.client.UpdatePrompt(ctx, args[0], promptTitle, promptDesc, promptTags)
	if err != nil {
		return err
	}
	fmt.Printf("Recorded new version of %s (%q)\n", args[0], updated.Title)
	return nil
}

func runPromptsArchive(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if err := env.client.ArchivePrompt(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Archived %s\n", args[0])
	return nil
}

func runPromptsRestore(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if err := env.client.RestorePrompt(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Restored %s\n", args[0])
	return nil
}

func init() {
	promptsListCmd.Flags().BoolVar(&listArchived, "archived", false, "List archived prompts instead of active ones")
	promptsListCmd.Flags().StringVar(&listSearch, "search", "", "Filter prompts by title")

	for _, c := range []*cobra.Command{promptsCreateCmd, promptsUpdateCmd} {
		c.Flags().StringVar(&promptTitle, "title", "", "Prompt title (required)")
		c.Flags().StringVar(&promptDesc, "desc", "", "Prompt text (required)")
		c.Flags().StringSliceVar(&promptTags, "tag", nil, "Tag (repeatable)")
	}

	promptsCmd.AddCommand(promptsListCmd)
	promptsCmd.AddCommand(promptsCreateCmd)
	promptsCmd.AddCommand(promptsUpdateCmd)
	promptsCmd.AddCommand(promptsArchiveCmd)
	promptsCmd.AddCommand(promptsRestoreCmd)
}
