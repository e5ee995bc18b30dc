package annotate

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// TimestampToFolder converts an RFC 3339 timestamp like
// 2025-10-24T03:06:18.276201Z to the run-folder naming scheme
// YYYYMMDDTHHMMSSZ. Unparseable input yields "".
func TimestampToFolder(ts string) string {
	s := strings.TrimSpace(ts)
	s = strings.TrimSuffix(s, "Z")
	if i := strings.Index(s, "."); i >= 0 {
		s = s[:i]
	}
	date, clock, ok := strings.Cut(s, "T")
	if !ok {
		return ""
	}
	date = strings.ReplaceAll(date, "-", "")
	clock = strings.ReplaceAll(clock, ":", "")
	return date + "T" + clock + "Z"
}

// FindHistoryDir locates the run's history* folder, preferring one inside
// the project's subfolder when projectName is given. Returns "" when none
// exists.
func FindHistoryDir(runDir, projectName string) string {
	if runDir == "" {
		return ""
	}
	if projectName != "" {
		candidate := filepath.Join(runDir, filepath.Base(projectName))
		if dir := firstHistoryChild(candidate); dir != "" {
			return dir
		}
	}
	return firstHistoryChild(runDir)
}

func firstHistoryChild(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), "history") {
			return filepath.Join(dir, e.Name())
		}
	}
	return ""
}

// CountClassMethods returns the number of methodSigs entries in the
// target class's class.json under the run's class-info tree, or 0 when
// the class cannot be found.
func CountClassMethods(runDir, projectName, targetClass string) int {
	if runDir == "" || targetClass == "" {
		return 0
	}

	classInfoDir := ""
	if projectName != "" {
		candidate := filepath.Join(runDir, filepath.Base(projectName), "class-info")
		if isDir(candidate) {
			classInfoDir = candidate
		}
	}
	if classInfoDir == "" {
		entries, err := os.ReadDir(runDir)
		if err != nil {
			return 0
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			candidate := filepath.Join(runDir, e.Name(), "class-info")
			if isDir(candidate) {
				classInfoDir = candidate
				break
			}
		}
	}
	if classInfoDir == "" {
		return 0
	}

	count := 0
	found := false
	_ = filepath.WalkDir(classInfoDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found || d.IsDir() || d.Name() != "class.json" {
			return nil
		}
		if filepath.Base(filepath.Dir(path)) != targetClass {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var doc struct {
			MethodSigs map[string]json.RawMessage `json:"methodSigs"`
		}
		if err := json.Unmarshal(data, &doc); err != nil || doc.MethodSigs == nil {
			return nil
		}
		count = len(doc.MethodSigs)
		found = true
		return nil
	})
	return count
}

// CountPublicMethods counts the method folders under the target class's
// history folder, resolving opaque classNN names through the sibling
// classMapping.json.
func CountPublicMethods(historyDir, targetClass string) int {
	if historyDir == "" || targetClass == "" {
		return 0
	}

	mapping := readClassMapping(filepath.Join(filepath.Dir(historyDir), "classMapping.json"))

	entries, err := os.ReadDir(historyDir)
	if err != nil {
		return 0
	}
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), "class") {
			continue
		}
		name := e.Name()
		if mapped, ok := mapping[name]; ok {
			name = mapped
		}
		if name != targetClass {
			continue
		}

		methods, err := os.ReadDir(filepath.Join(historyDir, e.Name()))
		if err != nil {
			return 0
		}
		count := 0
		for _, m := range methods {
			if m.IsDir() && strings.HasPrefix(m.Name(), "method") {
				count++
			}
		}
		return count
	}
	return 0
}

func readClassMapping(path string) map[string]string {
	data, err := os.ReadFile(path)
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

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
