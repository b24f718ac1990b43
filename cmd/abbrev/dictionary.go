package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/abbrev/internal/bootstrap"
	"github.com/at-ishikawa/abbrev/internal/dictionary"
	"github.com/at-ishikawa/abbrev/internal/generation"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check keyword|abbreviation <value>",
		Short: "Check whether a keyword or an abbreviation is already in the dictionary",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := generation.ParseField(args[0])
			if err != nil {
				return err
			}
			value := strings.TrimSpace(args[1])

			app := bootstrap.New()
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				deps, err := setupDependencies(ctx, app)
				if err != nil {
					return err
				}
				exists, err := deps.oracle.Exists(ctx, field, value)
				if err != nil {
					return fmt.Errorf("oracle.Exists() > %w", err)
				}
				if exists {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s exists\n", field, value)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s is free\n", field, value)
				}
				return nil
			})
		},
	}
}

func newAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <keyword> <abbreviation> [description]",
		Short: "Add an entry to the dictionary by hand",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := dictionary.Entry{
				Keyword:      strings.TrimSpace(args[0]),
				Abbreviation: strings.TrimSpace(args[1]),
			}
			if len(args) == 3 {
				entry.Description = strings.TrimSpace(args[2])
			}

			app := bootstrap.New()
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				deps, err := setupDependencies(ctx, app)
				if err != nil {
					return err
				}
				if err := deps.sink.Persist(ctx, entry); err != nil {
					if !errors.Is(err, generation.ErrIndexNotUpdated) {
						return fmt.Errorf("sink.Persist() > %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "warning: %v. Run `abbrev reindex` later.\n", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s as %s\n", entry.Keyword, entry.Abbreviation)
				return nil
			})
		},
	}
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import entries from a JSON or YAML file in one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := dictionary.LoadSeedFile(args[0])
			if err != nil {
				return fmt.Errorf("dictionary.LoadSeedFile() > %w", err)
			}

			app := bootstrap.New()
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				deps, err := setupDependencies(ctx, app)
				if err != nil {
					return err
				}
				if err := deps.repository.BatchInsert(ctx, entries); err != nil {
					return fmt.Errorf("repository.BatchInsert() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries\n", len(entries))

				ensureIndexed(ctx, deps.indexer)
				return nil
			})
		},
	}
}

func newReindexCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Drop every stored embedding and index the whole dictionary again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := bootstrap.New()
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				deps, err := setupDependencies(ctx, app)
				if err != nil {
					return err
				}
				indexed, err := deps.indexer.Rebuild(ctx)
				if err != nil {
					return fmt.Errorf("indexer.Rebuild() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d entries with %s\n", indexed, deps.cfg.OpenAI.EmbeddingModel)
				return nil
			})
		},
	}
}

type ListFormat string

const (
	ListFormatTable ListFormat = "table"
	ListFormatYAML  ListFormat = "yaml"
)

var (
	_              pflag.Value = (*ListFormat)(nil)
	allListFormats             = []ListFormat{ListFormatTable, ListFormatYAML}
)

func (f *ListFormat) Set(val string) error {
	for _, format := range allListFormats {
		if val == string(format) {
			*f = format
			return nil
		}
	}
	return fmt.Errorf("invalid format: %s", val)
}

func (f ListFormat) String() string {
	return string(f)
}

func (f *ListFormat) Type() string {
	return "format"
}

func newListCommand() *cobra.Command {
	format := ListFormatTable
	command := &cobra.Command{
		Use:   "list",
		Short: "List every dictionary entry ordered by keyword",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := bootstrap.New()
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				deps, err := setupDependencies(ctx, app)
				if err != nil {
					return err
				}
				entries, err := deps.repository.FindAll(ctx)
				if err != nil {
					return fmt.Errorf("repository.FindAll() > %w", err)
				}
				return writeEntries(cmd.OutOrStdout(), entries, format)
			})
		},
	}
	command.Flags().Var(&format, "format", fmt.Sprintf("Output format. Possible values are %v", allListFormats))
	return command
}

func writeEntries(w io.Writer, entries []dictionary.Entry, format ListFormat) error {
	if format == ListFormatYAML {
		if err := dictionary.WriteYAML(w, entries); err != nil {
			return fmt.Errorf("dictionary.WriteYAML() > %w", err)
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEYWORD\tABBREVIATION\tDESCRIPTION")
	for _, entry := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", entry.Keyword, entry.Abbreviation, entry.Description)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("tabwriter.Flush() > %w", err)
	}
	return nil
}
