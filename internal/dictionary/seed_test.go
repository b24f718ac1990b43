package dictionary

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedFile(t *testing.T) {
	tests := []struct {
		name          string
		fileName      string
		content       string
		want          []Entry
		wantErr       error
		wantErrString string
	}{
		{
			name:     "json with tab indentation",
			fileName: "Dictionary.json",
			content: "[\n\t{\"keyword\": \"Closing\", \"abbreviation\": \"Clsg\", \"description\": \"The act of closing.\"},\n" +
				"\t{\"keyword\": \"Estimated\", \"abbreviation\": \"Estimd\", \"description\": null}\n]",
			want: []Entry{
				{Keyword: "Closing", Abbreviation: "Clsg", Description: "The act of closing."},
				{Keyword: "Estimated", Abbreviation: "Estimd"},
			},
		},
		{
			name:     "yaml",
			fileName: "dictionary.yml",
			content: `- keyword: Estimation
  abbreviation: Estimn
  description: " The process of estimating. "
- keyword: Estimator
  abbreviation: Estimr
`,
			want: []Entry{
				{Keyword: "Estimation", Abbreviation: "Estimn", Description: "The process of estimating."},
				{Keyword: "Estimator", Abbreviation: "Estimr"},
			},
		},
		{
			name:          "missing abbreviation",
			fileName:      "Dictionary.json",
			content:       `[{"keyword": "Closing"}]`,
			wantErr:       ErrInvalidEntry,
			wantErrString: "entry 1",
		},
		{
			name:          "all uppercase abbreviation",
			fileName:      "Dictionary.json",
			content:       `[{"keyword": "Escape key", "abbreviation": "ESC"}]`,
			wantErr:       ErrInvalidEntry,
			wantErrString: `entry 1 > invalid entry: abbreviation "ESC" must start with an uppercase letter`,
		},
		{
			name:     "lowercase keyword in a later entry",
			fileName: "dictionary.yml",
			content: `- keyword: Closing
  abbreviation: Clsg
- keyword: escape key
  abbreviation: Esc
`,
			wantErr:       ErrInvalidEntry,
			wantErrString: `entry 2 > invalid entry: keyword "escape key" must start`,
		},
		{
			name:     "duplicate abbreviation",
			fileName: "Dictionary.json",
			content: `[{"keyword": "Closing", "abbreviation": "Clsg"},
{"keyword": "Closure", "abbreviation": "Clsg"}]`,
			wantErr:       ErrDuplicateKey,
			wantErrString: "already used by entry 1",
		},
		{
			name:          "malformed json",
			fileName:      "Dictionary.json",
			content:       `[{"keyword": `,
			wantErrString: "json.Unmarshal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.fileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			got, err := LoadSeedFile(path)
			if tt.wantErr != nil || tt.wantErrString != "" {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				assert.Contains(t, err.Error(), tt.wantErrString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadSeedFile_NotFound(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteYAML_RoundTripsThroughLoadSeedFile(t *testing.T) {
	entries := []Entry{
		{Keyword: "Closing", Abbreviation: "Clsg", Description: "The act of closing."},
		{Keyword: "Matching", Abbreviation: "Mtch"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, entries))
	assert.Equal(t, `- keyword: Closing
  abbreviation: Clsg
  description: The act of closing.
- keyword: Matching
  abbreviation: Mtch
`, buf.String())

	path := filepath.Join(t.TempDir(), "export.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	got, err := LoadSeedFile(path)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
