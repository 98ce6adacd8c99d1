package yaml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMetadata(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		want      *Metadata
		errSubstr string
	}{
		{
			name: "valid",
			doc:  "features:\n  - Humidity\n  - Temperature\nlabel: Summary\n",
			want: &Metadata{Features: []string{"Humidity", "Temperature"}, Label: "Summary"},
		},
		{
			name:      "no features",
			doc:       "label: Summary\n",
			errSubstr: "no feature information",
		},
		{
			name:      "no label",
			doc:       "features: [Humidity]\n",
			errSubstr: "no label information",
		},
		{
			name:      "duplicated feature",
			doc:       "features: [Humidity, Humidity]\nlabel: Summary\n",
			errSubstr: "more than once",
		},
		{
			name:      "label as feature",
			doc:       "features: [Humidity, Summary]\nlabel: Summary\n",
			errSubstr: "cannot also be a feature",
		},
		{
			name:      "feature with whitespace",
			doc:       "features: [\"Wind Speed (km/h)\"]\nlabel: Summary\n",
			errSubstr: "contains whitespace",
		},
		{
			name:      "invalid yml",
			doc:       "features: [",
			errSubstr: "parsing yml features",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadMetadata([]byte(tt.doc))
			if tt.errSubstr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadMetadataFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.yml")
	doc, err := WriteMetadata(&Metadata{Features: []string{"Wind", "Humidity"}, Label: "Summary"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, doc, 0o644))

	md, err := ReadMetadataFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Wind", "Humidity"}, md.Features)
	assert.Equal(t, "Summary", md.Label)

	_, err = ReadMetadataFromFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
