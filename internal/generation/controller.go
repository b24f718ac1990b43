package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/at-ishikawa/abbrev/internal/dictionary"
)

// Outcome is how a session terminated.
type Outcome int

const (
	// OutcomeAlreadyExists means the keyword is in the dictionary and nothing was generated.
	OutcomeAlreadyExists Outcome = iota
	OutcomeSuccess
	// OutcomeGiveUp means the retry budget ran out without a unique abbreviation.
	OutcomeGiveUp
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAlreadyExists:
		return "already exists"
	case OutcomeSuccess:
		return "success"
	case OutcomeGiveUp:
		return "give up"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is the terminal state of a session.
type Result struct {
	Outcome Outcome
	Keyword string
	// Candidate is set only on OutcomeSuccess
	Candidate Candidate
	// AvoidSet lists every rejected abbreviation, oldest first
	AvoidSet []string
	// Attempts is the number of generator calls
	Attempts int
}

// Entry is the dictionary entry a successful result would persist.
func (r Result) Entry() dictionary.Entry {
	return dictionary.Entry{
		Keyword:      r.Keyword,
		Abbreviation: r.Candidate.Abbreviation,
		Description:  r.Candidate.Description,
	}
}

type state int

const (
	stateCheckKeyword state = iota
	stateGenerateCandidate
	stateCheckAbbreviation
	stateRetry
)

func (s state) String() string {
	switch s {
	case stateCheckKeyword:
		return "CheckKeyword"
	case stateGenerateCandidate:
		return "GenerateCandidate"
	case stateCheckAbbreviation:
		return "CheckAbbreviation"
	case stateRetry:
		return "Retry"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Controller drives one keyword through uniqueness checks and candidate generation
// until a unique abbreviation is found or the retry budget is spent.
type Controller struct {
	oracle      Oracle
	generator   Generator
	retryBudget int
}

func NewController(oracle Oracle, generator Generator, retryBudget int) (*Controller, error) {
	if retryBudget < 1 {
		return nil, fmt.Errorf("retry budget must be at least 1, got %d", retryBudget)
	}
	return &Controller{
		oracle:      oracle,
		generator:   generator,
		retryBudget: retryBudget,
	}, nil
}

func (controller *Controller) RetryBudget() int {
	return controller.retryBudget
}

type session struct {
	id        string
	keyword   string
	avoid     *AvoidSet
	attempts  int
	candidate Candidate
}

func (s *session) result(outcome Outcome) Result {
	result := Result{
		Outcome:  outcome,
		Keyword:  s.keyword,
		AvoidSet: s.avoid.Items(),
		Attempts: s.attempts,
	}
	if outcome == OutcomeSuccess {
		result.Candidate = s.candidate
	}
	return result
}

// Run processes one keyword. AlreadyExists, Success and GiveUp are returned as a Result;
// an error means the session was aborted: ErrInvalidKeyword, ErrStoreUnavailable,
// or the context error on cancellation.
func (controller *Controller) Run(ctx context.Context, keyword string) (Result, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || !dictionary.IsConventionalCase(keyword) {
		return Result{}, fmt.Errorf("%w: %q must start with an uppercase letter followed by no other uppercase letters", ErrInvalidKeyword, keyword)
	}

	s := &session{
		id:      uuid.NewString(),
		keyword: keyword,
		avoid:   NewAvoidSet(),
	}
	logger := slog.Default().With("session", s.id, "keyword", keyword)

	current := stateCheckKeyword
	for {
		if err := ctx.Err(); err != nil {
			logger.Debug("session canceled", "state", current, "attempt", s.attempts)
			return Result{}, err
		}
		logger.Debug("transition",
			"state", current,
			"attempt", s.attempts,
			"avoid", s.avoid.Items())

		switch current {
		case stateCheckKeyword:
			exists, err := controller.oracle.Exists(ctx, FieldKeyword, keyword)
			if err != nil {
				return Result{}, controller.abort(ctx, err, "oracle.Exists(keyword)")
			}
			if exists {
				return s.result(OutcomeAlreadyExists), nil
			}
			current = stateGenerateCandidate

		case stateGenerateCandidate:
			s.attempts++
			candidate, err := controller.generator.Generate(ctx, keyword, s.avoid.Items())
			if err != nil {
				if !isGenerationFailure(err) {
					return Result{}, controller.abort(ctx, err, "generator.Generate()")
				}
				logger.Warn("candidate generation failed",
					"attempt", s.attempts,
					"error", err)
				current = stateRetry
				continue
			}
			s.candidate = candidate
			current = stateCheckAbbreviation

		case stateCheckAbbreviation:
			abbreviation := s.candidate.Abbreviation
			if s.avoid.Contains(abbreviation) {
				logger.Debug("candidate was already rejected", "abbreviation", abbreviation)
				current = stateRetry
				continue
			}
			if !dictionary.IsConventionalCase(abbreviation) {
				logger.Debug("candidate violates the casing rule", "abbreviation", abbreviation)
				s.avoid.Append(abbreviation)
				current = stateRetry
				continue
			}
			exists, err := controller.oracle.Exists(ctx, FieldAbbreviation, abbreviation)
			if err != nil {
				return Result{}, controller.abort(ctx, err, "oracle.Exists(abbreviation)")
			}
			if exists {
				logger.Debug("candidate is taken", "abbreviation", abbreviation)
				s.avoid.Append(abbreviation)
				current = stateRetry
				continue
			}
			logger.Debug("candidate accepted",
				"abbreviation", abbreviation,
				"attempt", s.attempts)
			return s.result(OutcomeSuccess), nil

		case stateRetry:
			if s.attempts >= controller.retryBudget {
				logger.Warn("retry budget exhausted",
					"attempts", s.attempts,
					"avoid", s.avoid.Items())
				return s.result(OutcomeGiveUp), nil
			}
			current = stateGenerateCandidate
		}
	}
}

func (controller *Controller) abort(ctx context.Context, err error, callee string) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return ctxErr
	}
	return fmt.Errorf("%s > %w", callee, err)
}
