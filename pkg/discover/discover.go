// Package discover locates generation-run attempt folders under a backup
// root. Runs lay out their history as
//
//	ROOT/<run>/(<package>/)?history*/class*/method*/attempt<N>
//
// where the optional package level carries a classMapping.json that maps
// opaque classNN folder names back to real class names.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/yaklabco/genqa/pkg/manifest"
)

// DefaultAttempt is the attempt folder probed when none is configured.
// The generation tool retries up to four times, so attempt4 marks the
// methods that exhausted their retries.
const DefaultAttempt = 4

// Attempt identifies one discovered attempt folder.
type Attempt struct {
	Run        string `json:"top_level"`
	Package    string `json:"package"`
	History    string `json:"history"`
	ClassDir   string `json:"class"`
	ClassName  string `json:"class_name"`
	MethodDir  string `json:"method"`
	AttemptDir string `json:"attempt_dir"`
}

// FindAttempts walks each immediate child of root for history trees
// containing the requested attempt folder. Results are sorted by the walk
// order (run, package, history, class, method) and therefore
// deterministic. Unreadable directories are skipped.
func FindAttempts(root string, attempt int) ([]Attempt, error) {
	if attempt <= 0 {
		attempt = DefaultAttempt
	}
	attemptName := "attempt" + strconv.Itoa(attempt)

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path is not a directory: %s", root)
	}

	var results []Attempt
	for _, run := range sortedDirs(root) {
		runPath := filepath.Join(root, run)

		// history* may sit directly under the run folder or one level
		// deeper under a package folder.
		type histDir struct {
			name string
			path string
			pkg  string // empty when directly under the run folder
		}
		var hists []histDir
		for _, child := range sortedDirs(runPath) {
			if strings.HasPrefix(child, "history") {
				hists = append(hists, histDir{name: child, path: filepath.Join(runPath, child)})
			}
		}
		for _, pkg := range sortedDirs(runPath) {
			pkgPath := filepath.Join(runPath, pkg)
			for _, child := range sortedDirs(pkgPath) {
				if strings.HasPrefix(child, "history") {
					hists = append(hists, histDir{name: child, path: filepath.Join(pkgPath, child), pkg: pkgPath})
				}
			}
		}

		for _, hist := range hists {
			mapping := loadClassMapping(hist.pkg)

			for _, classDir := range sortedDirs(hist.path) {
				if !strings.HasPrefix(classDir, "class") {
					continue
				}
				classPath := filepath.Join(hist.path, classDir)

				className := classDir
				if name, ok := mapping[classDir]; ok {
					className = name
				}

				for _, methodDir := range sortedDirs(classPath) {
					if !strings.HasPrefix(methodDir, "method") {
						continue
					}
					attemptDir := filepath.Join(classPath, methodDir, attemptName)
					if info, err := os.Stat(attemptDir); err != nil || !info.IsDir() {
						continue
					}
					results = append(results, Attempt{
						Run:        run,
						Package:    filepath.Base(filepath.Dir(hist.path)),
						History:    hist.name,
						ClassDir:   classDir,
						ClassName:  className,
						MethodDir:  methodDir,
						AttemptDir: attemptDir,
					})
				}
			}
		}
	}
	return results, nil
}

// ToManifest converts discovered attempts to manifest entries, one per
// attempt folder.
func ToManifest(attempts []Attempt) []manifest.Entry {
	entries := make([]manifest.Entry, 0, len(attempts))
	for _, a := range attempts {
		entries = append(entries, manifest.Entry{Path: a.AttemptDir, ClassName: a.ClassName})
	}
	return entries
}

// loadClassMapping reads pkgDir/classMapping.json if present. Missing or
// malformed mappings are treated as empty.
func loadClassMapping(pkgDir string) map[string]string {
	if pkgDir == "" {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(pkgDir, "classMapping.json"))
	if err != nil {
		return nil
	}
	var raw map[string]struct {
		ClassName string `json:"className"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	mapping := make(map[string]string, len(raw))
	for dir, entry := range raw {
		if entry.ClassName != "" {
			mapping[dir] = entry.ClassName
		}
	}
	return mapping
}

// sortedDirs lists the immediate subdirectory names of dir in sorted
// order. Read errors yield an empty list.
func sortedDirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}
