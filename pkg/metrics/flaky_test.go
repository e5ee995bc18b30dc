package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFindFlakyReports(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	a := writeFile(t, filepath.Join(root, "target", "idflakies", "report.json"), "{}")
	b := writeFile(t, filepath.Join(root, "flaky-results", "out.txt"), "")
	writeFile(t, filepath.Join(root, "flaky-results", "ignored.log"), "")
	writeFile(t, filepath.Join(root, "src", "Main.java"), "class Main {}")
	c := writeFile(t, filepath.Join(root, "target", "surefire", "flaky-summary.log"), "")

	got := FindFlakyReports(root)
	assert.Equal(t, []string{b, a, c}, got)
}

func TestParseFlakyCandidates_JSONCounts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := writeFile(t, filepath.Join(dir, "summary.json"), `{"flakyTests": 3, "totalTests": 60}`)

	m := ParseFlakyCandidates([]string{p}, "")
	require.NotNil(t, m)
	assert.Equal(t, 3, m.FlakyCount)
	require.NotNil(t, m.TotalTests)
	assert.Equal(t, 60, *m.TotalTests)
	require.NotNil(t, m.FlakyRatePct)
	assert.InDelta(t, 5.0, *m.FlakyRatePct, 0.001)
}

func TestParseFlakyCandidates_JSONFlakyList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := writeFile(t, filepath.Join(dir, "flaky.json"), `{"flaky": ["a.T#x", "a.T#y"]}`)

	m := ParseFlakyCandidates([]string{p}, "")
	require.NotNil(t, m)
	assert.Equal(t, 2, m.FlakyCount)
	assert.Nil(t, m.TotalTests)
	assert.Nil(t, m.FlakyRatePct)
}

func TestParseFlakyCandidates_JSONTargetSubstring(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := writeFile(t, filepath.Join(dir, "detail.json"),
		`{"runs": [{"test": "a.HelpFormatterTest#wrap"}, {"test": "a.OptionsTest#parse"}]}`)

	m := ParseFlakyCandidates([]string{p}, "helpformatter")
	require.NotNil(t, m)
	assert.Equal(t, 1, m.FlakyCount)

	assert.Nil(t, ParseFlakyCandidates([]string{p}, "absentclass"))
}

func TestParseFlakyCandidates_XML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := writeFile(t, filepath.Join(dir, "report.xml"),
		`<report><flaky name="a"/><flaky name="b"/><testcase/><testcase/><testcase/></report>`)

	m := ParseFlakyCandidates([]string{p}, "")
	require.NotNil(t, m)
	assert.Equal(t, 2, m.FlakyCount)
	require.NotNil(t, m.TotalTests)
	assert.Equal(t, 3, *m.TotalTests)
}

func TestParseFlakyCandidates_TextLines(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := writeFile(t, filepath.Join(dir, "log.txt"),
		"ok test one\nFLAKY: a.T#x\nflaky detected in a.T#y\nall done\n")

	m := ParseFlakyCandidates([]string{p}, "")
	require.NotNil(t, m)
	assert.Equal(t, 2, m.FlakyCount)
}

func TestParseFlakyCandidates_NothingParseable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := writeFile(t, filepath.Join(dir, "log.txt"), "all green\n")

	assert.Nil(t, ParseFlakyCandidates([]string{p}, ""))
	assert.Nil(t, ParseFlakyCandidates(nil, ""))
}
