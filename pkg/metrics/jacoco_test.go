package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJacocoCSV = `GROUP,PACKAGE,CLASS,INSTRUCTION_MISSED,INSTRUCTION_COVERED,BRANCH_MISSED,BRANCH_COVERED,LINE_MISSED,LINE_COVERED
cli,org.apache.commons.cli,HelpFormatter,10,90,2,8,5,45
cli,org.apache.commons.cli,Options,20,30,1,1,10,10
cli,org.apache.commons.cli,Broken,oops,1,0,0,1,1
`

func writeJacocoCSVFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jacoco.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleJacocoCSV), 0o644))
	return path
}

func TestParseJacocoCSV(t *testing.T) {
	t.Parallel()

	m, err := ParseJacocoCSV(writeJacocoCSVFixture(t), "")
	require.NoError(t, err)
	require.NotNil(t, m)

	// The malformed Broken row is skipped entirely.
	assert.Equal(t, 120, m.InstructionCovered)
	assert.Equal(t, 30, m.InstructionMissed)
	assert.Equal(t, 55, m.LineCovered)
	assert.Equal(t, 15, m.LineMissed)
	require.NotNil(t, m.InstructionCoveragePct)
	assert.InDelta(t, 80.0, *m.InstructionCoveragePct, 0.001)
	require.NotNil(t, m.LineCoveragePct)
	assert.InDelta(t, 78.57, *m.LineCoveragePct, 0.001)
}

func TestParseJacocoCSV_ClassFilter(t *testing.T) {
	t.Parallel()

	path := writeJacocoCSVFixture(t)

	m, err := ParseJacocoCSV(path, "helpformatter")
	require.NoError(t, err)
	assert.Equal(t, 90, m.InstructionCovered)
	assert.Equal(t, 45, m.LineCovered)

	m, err = ParseJacocoCSV(path, "org.apache.commons.cli.options")
	require.NoError(t, err)
	assert.Equal(t, 30, m.InstructionCovered)

	m, err = ParseJacocoCSV(path, "NoSuchClass")
	require.NoError(t, err)
	assert.Equal(t, 0, m.InstructionCovered+m.InstructionMissed)
	assert.Nil(t, m.LineCoveragePct)
}

func TestParseJacocoCSV_EmptyCellsCountAsZero(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "jacoco.csv")
	csv := "PACKAGE,CLASS,INSTRUCTION_MISSED,INSTRUCTION_COVERED,LINE_MISSED,LINE_COVERED\np,C,,5,,2\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	m, err := ParseJacocoCSV(path, "")
	require.NoError(t, err)
	assert.Equal(t, 5, m.InstructionCovered)
	assert.Equal(t, 0, m.InstructionMissed)
	require.NotNil(t, m.LineCoveragePct)
	assert.InDelta(t, 100.0, *m.LineCoveragePct, 0.001)
}

func TestParseJacocoCSV_MissingFile(t *testing.T) {
	t.Parallel()

	m, err := ParseJacocoCSV(filepath.Join(t.TempDir(), "absent.csv"), "")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestParseJacocoXML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "jacoco.xml")
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<report name="cli">
  <counter type="INSTRUCTION" missed="30" covered="120"/>
  <counter type="LINE" missed="15" covered="55"/>
  <counter type="BRANCH" missed="3" covered="9"/>
</report>`
	require.NoError(t, os.WriteFile(path, []byte(xml), 0o644))

	m, err := ParseJacocoXML(path)
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Equal(t, 120, m.InstructionCovered)
	assert.Equal(t, 30, m.InstructionMissed)
	assert.Equal(t, 55, m.LineCovered)
	assert.Equal(t, 15, m.LineMissed)
	require.NotNil(t, m.LineCoveragePct)
	assert.InDelta(t, 78.57, *m.LineCoveragePct, 0.001)
}

func TestParseJacoco_DispatchesOnExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "jacoco.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleJacocoCSV), 0o644))

	m, err := ParseJacoco(csvPath, "")
	require.NoError(t, err)
	assert.Equal(t, 120, m.InstructionCovered)
}
