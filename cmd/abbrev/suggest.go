package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/abbrev/internal/bootstrap"
	"github.com/at-ishikawa/abbrev/internal/cli"
	"github.com/at-ishikawa/abbrev/internal/generation"
)

func newSuggestCommand() *cobra.Command {
	var autoConfirm bool
	command := &cobra.Command{
		Use:   "suggest [keyword]",
		Short: "Generate a unique abbreviation for keywords, interactively unless a keyword is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := bootstrap.New()
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				deps, err := setupDependencies(ctx, app)
				if err != nil {
					return err
				}
				ensureIndexed(ctx, deps.indexer)

				controller, err := generation.NewController(
					deps.oracle,
					generation.NewRAGGenerator(deps.index, deps.llm, deps.cfg.Generation.ContextSize),
					deps.cfg.Generation.RetryBudget,
				)
				if err != nil {
					return fmt.Errorf("generation.NewController() > %w", err)
				}

				suggestCLI := cli.NewSuggestCLI(controller, deps.sink, cmd.InOrStdin(), cmd.OutOrStdout(), autoConfirm)
				if len(args) == 1 {
					return suggestCLI.Suggest(ctx, args[0])
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Using model %s (embeddings: %s)\n\n", deps.cfg.OpenAI.Model, deps.cfg.OpenAI.EmbeddingModel)
				return suggestCLI.Run(ctx, suggestCLI)
			})
		},
	}
	command.Flags().BoolVarP(&autoConfirm, "yes", "y", false, "Add the generated abbreviation without asking")
	return command
}
