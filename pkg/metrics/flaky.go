package metrics

import (
	"bytes"
	"encoding/xml"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// FlakyMetrics summarizes flaky-test detection output. The counts are
// best-effort: iDFlakies and its relatives emit several report shapes and
// none of them is authoritative.
type FlakyMetrics struct {
	Candidates   []string `json:"candidates"`
	FlakyCount   int      `json:"flaky_count"`
	TotalTests   *int     `json:"total_tests"`
	FlakyRatePct *float64 `json:"flaky_rate_pct"`
}

// FindFlakyReports walks root for candidate flaky-detection reports:
// JSON, XML, and text files inside directories whose path mentions
// flaky-test tooling, plus anything under target/ whose file name does.
// Unreadable directories are skipped. The result is sorted and unique.
func FindFlakyReports(root string) []string {
	seen := make(map[string]struct{})

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		dir := strings.ToLower(filepath.Dir(path))
		if !strings.Contains(dir, "flakies") && !strings.Contains(dir, "flaky") {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".xml", ".txt":
			seen[path] = struct{}{}
		}
		return nil
	})

	target := filepath.Join(root, "target")
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		_ = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				return nil
			}
			name := strings.ToLower(d.Name())
			if strings.Contains(name, "idflakies") || strings.Contains(name, "flaky") {
				seen[path] = struct{}{}
			}
			return nil
		})
	}

	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ParseFlakyCandidates inspects the candidate reports and aggregates flaky
// and total test counts. It returns nil when none of the candidates
// yielded anything usable.
//
// When targetClass is non-empty, JSON, XML, and text candidates are
// searched for the class name as a substring and each occurrence counts as
// one flaky observation.
func ParseFlakyCandidates(paths []string, targetClass string) *FlakyMetrics {
	var (
		flaky     int
		tests     int
		parsedAny bool
	)
	target := strings.ToLower(targetClass)

	for _, p := range paths {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".json":
			f, t, ok := parseFlakyJSON(p, target)
			if ok {
				parsedAny = true
				flaky += f
				tests += t
			}
		case ".xml":
			f, t, ok := parseFlakyXML(p, target)
			if ok {
				parsedAny = true
				flaky += f
				tests += t
			}
		default:
			f, ok := parseFlakyText(p, target)
			if ok {
				parsedAny = true
				flaky += f
			}
		}
	}

	if !parsedAny {
		return nil
	}

	m := &FlakyMetrics{Candidates: paths, FlakyCount: flaky}
	if tests > 0 {
		m.TotalTests = &tests
		rate := round2(float64(flaky) / float64(tests) * 100.0)
		m.FlakyRatePct = &rate
	}
	return m
}

func parseFlakyJSON(path, target string) (flaky, tests int, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, false
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, 0, false
	}

	if target == "" {
		if f, okF := jsonInt(doc["flakyTests"]); okF {
			if t, okT := jsonInt(doc["totalTests"]); okT {
				return f, t, true
			}
		}
		if list, okL := doc["flaky"].([]any); okL {
			return len(list), 0, true
		}
		// Fall back to counting list-valued fields as test entries.
		for _, v := range doc {
			if list, okL := v.([]any); okL {
				tests += len(list)
			}
		}
		if tests > 0 {
			return 0, tests, true
		}
		return 0, 0, false
	}

	if n := strings.Count(strings.ToLower(string(data)), target); n > 0 {
		return n, 0, true
	}
	return 0, 0, false
}

func parseFlakyXML(path, target string) (flaky, tests int, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, false
	}

	if target != "" {
		if n := strings.Count(strings.ToLower(string(data)), target); n > 0 {
			return n, 0, true
		}
		return 0, 0, false
	}

	var flakyNodes, testNodes, testcaseNodes int
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, 0, false
		}
		se, isStart := tok.(xml.StartElement)
		if !isStart {
			continue
		}
		switch se.Name.Local {
		case "flaky":
			flakyNodes++
		case "test":
			testNodes++
		case "testcase":
			testcaseNodes++
		}
	}

	if flakyNodes > 0 {
		flaky = flakyNodes
		ok = true
	}
	if testNodes > 0 {
		tests = testNodes
		ok = true
	} else if testcaseNodes > 0 {
		tests = testcaseNodes
		ok = true
	}
	return flaky, tests, ok
}

func parseFlakyText(path, target string) (flaky int, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	txt := strings.ToLower(string(data))

	if target != "" {
		if n := strings.Count(txt, target); n > 0 {
			return n, true
		}
		return 0, false
	}

	for _, line := range strings.Split(txt, "\n") {
		if strings.Contains(line, "flaky") {
			flaky++
		}
	}
	return flaky, flaky > 0
}

func jsonInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}
