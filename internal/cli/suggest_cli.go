package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/abbrev/internal/dictionary"
	"github.com/at-ishikawa/abbrev/internal/generation"
)

var errEnd = errors.New("end")

//go:generate mockgen -source=suggest_cli.go -destination=../mocks/cli/mock_session.go -package=mock_cli

type Session interface {
	Session(ctx context.Context) error
}

// KeywordRunner runs one generation session for a keyword.
type KeywordRunner interface {
	Run(ctx context.Context, keyword string) (generation.Result, error)
}

// EntryPersister saves a confirmed entry.
type EntryPersister interface {
	Persist(ctx context.Context, entry dictionary.Entry) error
}

// SuggestCLI asks for keywords, shows the generated abbreviation and saves it on confirmation.
type SuggestCLI struct {
	runner       KeywordRunner
	persister    EntryPersister
	autoConfirm  bool
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
	success      *color.Color
	warning      *color.Color
	failure      *color.Color
}

var _ Session = (*SuggestCLI)(nil)

func NewSuggestCLI(
	runner KeywordRunner,
	persister EntryPersister,
	stdin io.Reader,
	stdout io.Writer,
	autoConfirm bool,
) *SuggestCLI {
	return &SuggestCLI{
		runner:       runner,
		persister:    persister,
		autoConfirm:  autoConfirm,
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		success:      color.New(color.FgGreen),
		warning:      color.New(color.FgYellow),
		failure:      color.New(color.FgRed),
	}
}

// Run repeats session until it ends, fails, or the process is interrupted.
func (cli *SuggestCLI) Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)

		for {
			if ctx.Err() != nil {
				return
			}
			if err := session.Session(ctx); err != nil {
				if !errors.Is(err, errEnd) {
					errCh <- err
				}
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(cli.stdoutWriter, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			_, _ = fmt.Fprintln(cli.stdoutWriter, "Received interrupt signal, exiting...")
			return nil
		}
		return fmt.Errorf("session.Session() > %w", err)
	}
	return nil
}

// Session reads one keyword and runs a generation session for it.
// Failures that only concern this keyword are printed and the next keyword is asked for.
func (cli *SuggestCLI) Session(ctx context.Context) error {
	_, _ = fmt.Fprint(cli.stdoutWriter, "Enter a new keyword (type 'exit' to quit): ")
	line, err := cli.readLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(cli.stdoutWriter)
			return errEnd
		}
		return fmt.Errorf("readLine() > %w", err)
	}

	keyword := strings.TrimSpace(line)
	if strings.EqualFold(keyword, "exit") {
		return errEnd
	}
	if keyword == "" {
		return nil
	}

	err = cli.Suggest(ctx, keyword)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, generation.ErrInvalidKeyword),
		errors.Is(err, generation.ErrTakenConcurrently),
		errors.Is(err, generation.ErrStoreUnavailable) && ctx.Err() == nil:
		_, _ = cli.failure.Fprintf(cli.stdoutWriter, "%v\n\n", err)
		return nil
	}
	return err
}

// Suggest runs one session for keyword, then asks whether to save a successful result.
func (cli *SuggestCLI) Suggest(ctx context.Context, keyword string) error {
	result, err := cli.runner.Run(ctx, keyword)
	if err != nil {
		return fmt.Errorf("runner.Run(%s) > %w", keyword, err)
	}

	switch result.Outcome {
	case generation.OutcomeAlreadyExists:
		_, _ = cli.warning.Fprintf(cli.stdoutWriter, "%s already exists in the dictionary. Try a different keyword.\n\n", result.Keyword)
		return nil
	case generation.OutcomeGiveUp:
		_, _ = cli.warning.Fprintf(cli.stdoutWriter,
			"Could not find a unique abbreviation for %s after %d attempts (rejected: %s). Try a different keyword.\n\n",
			result.Keyword, result.Attempts, strings.Join(result.AvoidSet, ", "))
		return nil
	}

	cli.printCandidate(result)

	confirmed := cli.autoConfirm
	if !confirmed {
		confirmed, err = cli.confirm("Do you want to add this word to the dictionary? (yes/no): ")
		if err != nil {
			return err
		}
	}
	if !confirmed {
		_, _ = fmt.Fprintf(cli.stdoutWriter, "%s was not added.\n\n", result.Keyword)
		return nil
	}

	entry := result.Entry()
	if err := cli.persister.Persist(ctx, entry); err != nil {
		if errors.Is(err, generation.ErrIndexNotUpdated) {
			_, _ = cli.warning.Fprintf(cli.stdoutWriter,
				"Added %s as %s, but the similarity index was not updated. Run `abbrev reindex` later.\n\n",
				entry.Keyword, entry.Abbreviation)
			return nil
		}
		return fmt.Errorf("persister.Persist(%s) > %w", entry.Keyword, err)
	}
	_, _ = cli.success.Fprintf(cli.stdoutWriter, "Added %s as %s.\n\n", entry.Keyword, entry.Abbreviation)
	return nil
}

func (cli *SuggestCLI) printCandidate(result generation.Result) {
	_, _ = cli.bold.Fprintf(cli.stdoutWriter, "%s: %s\n", result.Keyword, result.Candidate.Abbreviation)
	if result.Candidate.Description != "" {
		_, _ = fmt.Fprintf(cli.stdoutWriter, "  Description: %s\n", result.Candidate.Description)
	}
	if result.Candidate.Explanation != "" {
		_, _ = cli.italic.Fprintf(cli.stdoutWriter, "  Explanation: %s\n", result.Candidate.Explanation)
	}
}

// confirm treats end of input as no.
func (cli *SuggestCLI) confirm(question string) (bool, error) {
	_, _ = fmt.Fprint(cli.stdoutWriter, question)
	line, err := cli.readLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(cli.stdoutWriter)
			return false, nil
		}
		return false, fmt.Errorf("readLine() > %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// readLine returns io.EOF only when nothing was read.
func (cli *SuggestCLI) readLine() (string, error) {
	line, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		return "", err
	}
	return line, nil
}
