package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMutationsXML = `<?xml version="1.0" encoding="UTF-8"?>
<mutations>
  <mutation detected="true" status="KILLED">
    <sourceFile>HelpFormatter.java</sourceFile>
    <mutatedClass>org.apache.commons.cli.HelpFormatter</mutatedClass>
  </mutation>
  <mutation detected="false" status="SURVIVED">
    <sourceFile>HelpFormatter.java</sourceFile>
    <mutatedClass>org.apache.commons.cli.HelpFormatter</mutatedClass>
  </mutation>
  <mutation detected="false" status="NO_COVERAGE">
    <sourceFile>HelpFormatter.java</sourceFile>
    <mutatedClass>org.apache.commons.cli.HelpFormatter</mutatedClass>
  </mutation>
  <mutation detected="true">
    <sourceFile>Options.java</sourceFile>
    <mutatedClass>org.apache.commons.cli.Options</mutatedClass>
  </mutation>
  <mutation detected="false">
    <sourceFile>Options.java</sourceFile>
    <mutatedClass>org.apache.commons.cli.Options</mutatedClass>
  </mutation>
</mutations>
`

func writePitFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mutations.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleMutationsXML), 0o644))
	return path
}

func TestParsePitMutations(t *testing.T) {
	t.Parallel()

	m, err := ParsePitMutations(writePitFixture(t), "")
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Equal(t, 5, m.Total)
	// The two status-less mutations fall back to the detected attribute.
	assert.Equal(t, 2, m.Killed)
	assert.Equal(t, 2, m.Survived)
	assert.Equal(t, 1, m.NoCoverage)
	require.NotNil(t, m.ScorePct)
	assert.InDelta(t, 50.0, *m.ScorePct, 0.001)
}

func TestParsePitMutations_TargetFilter(t *testing.T) {
	t.Parallel()

	path := writePitFixture(t)

	tests := []struct {
		name   string
		target string
		total  int
	}{
		{name: "fully qualified", target: "org.apache.commons.cli.HelpFormatter", total: 3},
		{name: "simple name", target: "helpformatter", total: 3},
		{name: "source file stem", target: "Options", total: 2},
		{name: "no match", target: "Missing", total: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := ParsePitMutations(path, tt.target)
			require.NoError(t, err)
			require.NotNil(t, m)
			assert.Equal(t, tt.total, m.Total)
		})
	}
}

func TestParsePitMutations_NoCoveredMutations(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mutations.xml")
	xml := `<mutations><mutation status="NO_COVERAGE"><mutatedClass>a.B</mutatedClass></mutation></mutations>`
	require.NoError(t, os.WriteFile(path, []byte(xml), 0o644))

	m, err := ParsePitMutations(path, "")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Total)
	assert.Nil(t, m.ScorePct)
}

func TestParsePitMutations_MissingFile(t *testing.T) {
	t.Parallel()

	m, err := ParsePitMutations(filepath.Join(t.TempDir(), "absent.xml"), "")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestParsePitMutations_Malformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mutations.xml")
	require.NoError(t, os.WriteFile(path, []byte("<mutations><mutation>"), 0o644))

	_, err := ParsePitMutations(path, "")
	assert.Error(t, err)
}
