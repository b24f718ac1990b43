package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/abbrev/internal/dictionary"
	"github.com/at-ishikawa/abbrev/internal/generation"
	"github.com/at-ishikawa/abbrev/internal/inference/openai"
	"github.com/at-ishikawa/abbrev/internal/testutil"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantLevel bool
	}{
		{
			name:      "debug mode enabled",
			debugMode: true,
			wantLevel: true,
		},
		{
			name:      "debug mode disabled",
			debugMode: false,
			wantLevel: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			logger := slog.Default()
			assert.NotNil(t, logger)
			assert.Equal(t, tt.wantLevel, logger.Enabled(context.Background(), slog.LevelDebug))
		})
	}
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()

	assert.Equal(t, "abbrev", cmd.Use)
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"suggest", "check", "add", "import", "reindex", "list"}, names)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))
}

// newFakeOpenAIServer answers every chat completion with abbreviation and embeds every input on the same axis.
func newFakeOpenAIServer(t *testing.T, abbreviation string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var chatCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/chat/completions":
			chatCalls.Add(1)
			content, _ := json.Marshal(map[string]string{
				"abbreviation": abbreviation,
				"description":  "Having been estimated.",
				"explanation":  "-ed becomes d",
			})
			_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
				Choices: []openai.Choice{{Message: openai.ChoiceMessage{Role: openai.RoleAssistant, Content: string(content)}}},
			})
		case "/embeddings":
			var request openai.EmbeddingRequest
			if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			response := openai.EmbeddingResponse{Model: request.Model}
			for i := range request.Input {
				response.Data = append(response.Data, openai.EmbeddingData{Index: i, Embedding: []float32{1, 0.5}})
			}
			_ = json.NewEncoder(w).Encode(response)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server, &chatCalls
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestCommands(t *testing.T) {
	tmpDir := t.TempDir()
	server, chatCalls := newFakeOpenAIServer(t, "Estimd")
	cfgPath := testutil.SetupTestConfigWithSeedFile(t, tmpDir, server.URL, []dictionary.Entry{
		{Keyword: "Closing", Abbreviation: "Clsg", Description: "The act of closing."},
		{Keyword: "Matching", Abbreviation: "Mtch"},
	})

	got, err := execute(t, "", "--config", cfgPath, "check", "keyword", "Closing")
	require.NoError(t, err)
	assert.Equal(t, "keyword Closing exists\n", got)

	got, err = execute(t, "", "--config", cfgPath, "check", "abbreviation", "Estimd")
	require.NoError(t, err)
	assert.Equal(t, "abbreviation Estimd is free\n", got)

	_, err = execute(t, "", "--config", cfgPath, "check", "description", "Estimd")
	assert.Error(t, err)

	got, err = execute(t, "", "--config", cfgPath, "suggest", "Estimated", "--yes")
	require.NoError(t, err)
	assert.Contains(t, got, "Estimated: Estimd")
	assert.Contains(t, got, "Added Estimated as Estimd.")
	assert.Equal(t, int32(1), chatCalls.Load())

	// The keyword is taken now, so nothing is generated
	got, err = execute(t, "Estimated\nexit\n", "--config", cfgPath, "suggest")
	require.NoError(t, err)
	assert.Contains(t, got, "Estimated already exists in the dictionary.")
	assert.Equal(t, int32(1), chatCalls.Load())

	// Every candidate is taken: the budget of 3 is spent
	got, err = execute(t, "", "--config", cfgPath, "suggest", "Estimate")
	require.NoError(t, err)
	assert.Contains(t, got, "Could not find a unique abbreviation for Estimate after 3 attempts (rejected: Estimd)")
	assert.Equal(t, int32(4), chatCalls.Load())

	got, err = execute(t, "", "--config", cfgPath, "add", "Matched", "Mtchd", "Having been matched.")
	require.NoError(t, err)
	assert.Contains(t, got, "Added Matched as Mtchd")

	_, err = execute(t, "", "--config", cfgPath, "add", "Matchup", "Mtchd")
	assert.ErrorIs(t, err, generation.ErrTakenConcurrently)

	_, err = execute(t, "", "--config", cfgPath, "add", "Matchup", "MTCHP")
	assert.ErrorIs(t, err, dictionary.ErrInvalidEntry)

	got, err = execute(t, "", "--config", cfgPath, "list", "--format", "yaml")
	require.NoError(t, err)
	entries := []dictionary.Entry{
		{Keyword: "Closing", Abbreviation: "Clsg", Description: "The act of closing."},
		{Keyword: "Estimated", Abbreviation: "Estimd", Description: "Having been estimated."},
		{Keyword: "Matched", Abbreviation: "Mtchd", Description: "Having been matched."},
		{Keyword: "Matching", Abbreviation: "Mtch"},
	}
	var want bytes.Buffer
	require.NoError(t, dictionary.WriteYAML(&want, entries))
	assert.Equal(t, want.String(), got)

	got, err = execute(t, "", "--config", cfgPath, "reindex")
	require.NoError(t, err)
	assert.Equal(t, "Indexed 4 entries with text-embedding-3-small\n", got)

	importFile := testutil.WriteSeedFile(t, t.TempDir(), []dictionary.Entry{
		{Keyword: "Estimation", Abbreviation: "Estimn"},
		{Keyword: "Estimator", Abbreviation: "Estimr"},
	})
	got, err = execute(t, "", "--config", cfgPath, "import", importFile)
	require.NoError(t, err)
	assert.Equal(t, "Imported 2 entries\n", got)

	// Importing again violates the unique constraints and stores nothing
	_, err = execute(t, "", "--config", cfgPath, "import", importFile)
	assert.ErrorIs(t, err, dictionary.ErrDuplicateKey)

	got, err = execute(t, "", "--config", cfgPath, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	require.Len(t, lines, 7)
	assert.Regexp(t, `^KEYWORD\s+ABBREVIATION\s+DESCRIPTION$`, lines[0])
	assert.Regexp(t, `^Closing\s+Clsg\s+The act of closing\.$`, lines[1])
}

func TestListFormat_Set(t *testing.T) {
	var format ListFormat
	require.NoError(t, format.Set("yaml"))
	assert.Equal(t, ListFormatYAML, format)
	assert.Equal(t, "yaml", format.String())
	assert.Error(t, format.Set("csv"))
}
