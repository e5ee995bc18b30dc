package annotate

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

const sampleTestClass = `package org.example;

import org.junit.jupiter.api.Test;

public class FooTest {
    @Test
    void parses() {}

    @org.junit.Test
    public void legacyStyle() {}

    // @Test commented out
    /* @Test
       also commented out */
    void notATest() {}

    @TestFactory
    void factoryDoesNotCount() {}
}
`

func TestCountTestMethods(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "org", "example", "FooTest.java"), sampleTestClass)
	writeFile(t, filepath.Join(dir, "BarTest.java"), "@Test\nvoid a() {}\n@Test\nvoid b() {}\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "@Test should not count")

	assert.Equal(t, 4, CountTestMethods(dir))
}

func TestCountTestMethods_MissingDir(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, CountTestMethods(filepath.Join(t.TempDir(), "absent")))
}

func TestCountTestFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "FooTest.java"), "class FooTest {}")
	writeFile(t, filepath.Join(dir, "BarTest.java"), "class BarTest {}")
	writeFile(t, filepath.Join(dir, "readme.md"), "# notes")

	assert.Equal(t, 2, CountTestFiles(dir))
}

func TestCountPrompts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		records string
		want    int
	}{
		{
			name:    "prompt arrays",
			records: `[{"prompt": ["sys", "user", "assistant"]}, {"prompt": ["sys", "user"]}]`,
			want:    5,
		},
		{
			name:    "records without prompt count as one each",
			records: `[{"attempt": 1}, {"attempt": 2}]`,
			want:    2,
		},
		{
			name:    "single object with prompt",
			records: `{"prompt": ["a", "b"]}`,
			want:    2,
		},
		{
			name:    "single object without prompt",
			records: `{"attempt": 1}`,
			want:    1,
		},
		{
			name:    "ndjson fallback",
			records: "{\"prompt\": [\"a\"]}\nnot json\n{\"attempt\": 2}\n",
			want:    2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "class1", "method1", "records.json"), tt.records)
			assert.Equal(t, tt.want, CountPrompts(dir))
		})
	}
}

func TestCountPrompts_SumsAcrossFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "class1", "method1", "records.json"), `[{"prompt": ["a"]}]`)
	writeFile(t, filepath.Join(dir, "class1", "method2", "records.json"), `[{"prompt": ["a", "b"]}]`)
	writeFile(t, filepath.Join(dir, "class1", "method2", "other.json"), `[{"prompt": ["x"]}]`)

	assert.Equal(t, 3, CountPrompts(dir))
}

func TestCountTokens(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "m1", "records.json"),
		`[{"promptToken": 100, "responseToken": 40}, {"promptToken": 250, "responseToken": 90}]`)
	writeFile(t, filepath.Join(dir, "m2", "records.json"),
		`[{"promptToken": 300, "responseToken": 10}]`)

	maxima := &TokenMaxima{}
	prompt, response := CountTokens(dir, maxima)
	assert.Equal(t, 650, prompt)
	assert.Equal(t, 140, response)
	assert.Equal(t, 300, maxima.Prompt)
	assert.Equal(t, 90, maxima.Response)
}

func TestTimestampToFolder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "2025-10-24T03:06:18.276201Z", want: "20251024T030618Z"},
		{in: "2025-10-24T03:06:18Z", want: "20251024T030618Z"},
		{in: "2025-10-24T03:06:18", want: "20251024T030618Z"},
		{in: " 2025-01-02T10:20:30Z ", want: "20250102T102030Z"},
		{in: "garbage", want: ""},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TimestampToFolder(tt.in), "input %q", tt.in)
	}
}

func TestFindHistoryDir(t *testing.T) {
	t.Parallel()

	run := t.TempDir()
	inner := filepath.Join(run, "commons-cli", "history20251024")
	require.NoError(t, os.MkdirAll(inner, 0o755))
	outer := filepath.Join(run, "history-top")
	require.NoError(t, os.MkdirAll(outer, 0o755))

	// The project's own history wins when the project name is known.
	assert.Equal(t, inner, FindHistoryDir(run, "/backups/commons-cli"))
	assert.Equal(t, outer, FindHistoryDir(run, ""))
	assert.Equal(t, outer, FindHistoryDir(run, "unknown-project"))
	assert.Equal(t, "", FindHistoryDir(filepath.Join(run, "absent"), ""))
}

func TestCountClassMethods(t *testing.T) {
	t.Parallel()

	run := t.TempDir()
	classJSON := `{"methodSigs": {"wrap(String)": "...", "format()": "...", "parse(int)": "..."}}`
	writeFile(t, filepath.Join(run, "commons-cli", "class-info", "org.example", "HelpFormatter", "class.json"), classJSON)
	writeFile(t, filepath.Join(run, "commons-cli", "class-info", "org.example", "Options", "class.json"), `{"methodSigs": {"a()": ""}}`)

	assert.Equal(t, 3, CountClassMethods(run, "/backups/commons-cli", "HelpFormatter"))
	assert.Equal(t, 1, CountClassMethods(run, "", "Options"), "falls back to scanning run children")
	assert.Equal(t, 0, CountClassMethods(run, "commons-cli", "Missing"))
	assert.Equal(t, 0, CountClassMethods(run, "commons-cli", ""))
}

func TestCountPublicMethods(t *testing.T) {
	t.Parallel()

	pkg := t.TempDir()
	hist := filepath.Join(pkg, "history1")
	require.NoError(t, os.MkdirAll(filepath.Join(hist, "class1", "method1"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(hist, "class1", "method2"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(hist, "class1", "attempt-misc"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(hist, "class2", "method1"), 0o755))
	writeFile(t, filepath.Join(pkg, "classMapping.json"),
		`{"class1": {"className": "HelpFormatter"}, "class2": {"className": "Options"}}`)

	assert.Equal(t, 2, CountPublicMethods(hist, "HelpFormatter"))
	assert.Equal(t, 1, CountPublicMethods(hist, "Options"))
	assert.Equal(t, 0, CountPublicMethods(hist, "Missing"))
	assert.Equal(t, 0, CountPublicMethods("", "HelpFormatter"))
}
