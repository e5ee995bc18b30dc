// Package annotate enriches a quality-summary CSV with per-run counters
// gathered from generation-run backup folders: generated test methods and
// files, prompt and token totals, and class/method counts from the run's
// history metadata.
package annotate

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// testAnnotationRE matches JUnit @Test annotations, including qualified
// forms like @org.junit.Test.
var testAnnotationRE = regexp.MustCompile(`@(?:[A-Za-z0-9_]+\.)*Test\b`)

var (
	blockCommentRE = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRE  = regexp.MustCompile(`(?m)//.*$`)
)

// stripJavaComments removes block and line comments. Not a full parser,
// but enough to avoid counting annotations inside commented-out code.
func stripJavaComments(src string) string {
	src = blockCommentRE.ReplaceAllString(src, "")
	return lineCommentRE.ReplaceAllString(src, "")
}

// CountTestMethods counts @Test annotations across the Java files under
// testDir, comments stripped first. Files whose content does not detect
// as Java are skipped. A missing directory counts as zero.
func CountTestMethods(testDir string) int {
	total := 0
	forEachJavaFile(testDir, func(path string, content []byte) {
		total += len(testAnnotationRE.FindAllString(stripJavaComments(string(content)), -1))
	})
	return total
}

// CountTestFiles counts the Java files under testDir.
func CountTestFiles(testDir string) int {
	total := 0
	forEachJavaFile(testDir, func(string, []byte) { total++ })
	return total
}

func forEachJavaFile(dir string, fn func(path string, content []byte)) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".java") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		if lang := enry.GetLanguage(filepath.Base(path), content); lang != "Java" {
			return nil
		}
		fn(path, content)
		return nil
	})
}
