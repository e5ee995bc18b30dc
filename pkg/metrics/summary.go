package metrics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ErrUnderDetectionDir is returned when the CSV summary path points inside
// the project's .dtfixingtools directory. That directory belongs to the
// flaky-detection tooling and must never be created or modified here.
var ErrUnderDetectionDir = errors.New("summary path is under .dtfixingtools")

// timeNow is swapped in tests to pin the CSV timestamp.
var timeNow = time.Now

// CollectOptions configures a metrics collection pass.
type CollectOptions struct {
	// Root is the project root; report auto-detection starts here.
	Root string

	// PitPath overrides the auto-detected mutations.xml location.
	PitPath string

	// JacocoPath overrides the auto-detected jacoco.csv / jacoco.xml
	// location.
	JacocoPath string

	// FlakyInput is an explicit flaky-report file or directory. When a
	// directory, its immediate entries become the candidate set.
	FlakyInput string

	// TargetClass scopes metrics to one class. Accepted forms: a fully
	// qualified name, a path with slashes, or a simple class name, with
	// an optional .java / .class suffix.
	TargetClass string
}

// Summary is the aggregated metrics record. Sections are nil when the
// corresponding report was absent.
type Summary struct {
	ProjectRoot string         `json:"project_root"`
	TargetClass string         `json:"target_class,omitempty"`
	Pit         *PitMetrics    `json:"pit"`
	Jacoco      *JacocoMetrics `json:"jacoco"`
	Flaky       *FlakyMetrics  `json:"idflakies"`
}

// Collect gathers PIT, JaCoCo, and flaky-detection metrics for a project.
// Parse failures are captured in the section's Error field rather than
// aborting the run; only an unresolvable root is a hard error.
func Collect(opts CollectOptions) (*Summary, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	target := NormalizeTargetClass(opts.TargetClass)
	s := &Summary{ProjectRoot: root, TargetClass: target}

	pitPath := opts.PitPath
	jacocoPath := opts.JacocoPath
	candidates := explicitFlakyCandidates(opts.FlakyInput)

	if pitPath == "" || !isFile(pitPath) {
		detectedPit, detectedJacoco, detectedFlaky := AutoDetectReports(root)
		if pitPath == "" {
			pitPath = detectedPit
		}
		if jacocoPath == "" {
			jacocoPath = detectedJacoco
		}
		if candidates == nil {
			candidates = detectedFlaky
		}
	}

	if pitPath != "" {
		pit, err := ParsePitMutations(pitPath, target)
		if err != nil {
			pit = &PitMetrics{Path: pitPath, Error: err.Error()}
		}
		s.Pit = pit
	}

	if jacocoPath != "" {
		jacoco, err := ParseJacoco(jacocoPath, target)
		if err != nil {
			jacoco = &JacocoMetrics{Path: jacocoPath, Error: err.Error()}
		}
		s.Jacoco = jacoco
	}

	if len(candidates) > 0 {
		s.Flaky = ParseFlakyCandidates(candidates, target)
	}

	return s, nil
}

// explicitFlakyCandidates expands an explicit flaky input into existing
// candidate files. A nil return means "nothing explicit, auto-detect
// instead".
func explicitFlakyCandidates(input string) []string {
	if input == "" {
		return nil
	}
	info, err := os.Stat(input)
	if err != nil {
		return []string{}
	}
	if !info.IsDir() {
		return []string{input}
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return []string{}
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, filepath.Join(input, e.Name()))
	}
	return out
}

// JSON renders the summary as indented JSON.
func (s *Summary) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	return append(data, '\n'), nil
}

// NormalizeTargetClass canonicalizes the various class-name spellings to
// a dotted form: backslashes and slashes become dots, a trailing .java or
// .class suffix is dropped, and stray leading or trailing dots are
// trimmed.
func NormalizeTargetClass(raw string) string {
	t := strings.TrimSpace(raw)
	if t == "" {
		return ""
	}
	t = strings.ReplaceAll(t, "\\", "/")
	t = strings.ReplaceAll(t, "/", ".")
	lower := strings.ToLower(t)
	if strings.HasSuffix(lower, ".java") || strings.HasSuffix(lower, ".class") {
		t = t[:strings.LastIndex(t, ".")]
	}
	return strings.Trim(t, ".")
}

// DefaultCSVPath is where WriteCSVSummary appends rows when no explicit
// path is given.
func DefaultCSVPath(root string) string {
	return filepath.Join(root, "tools", "quality_summary.csv")
}

var csvHeader = []string{
	"timestamp",
	"project_root",
	"target_class",
	"line_coverage_pct",
	"mutation_score_pct",
	"flaky_count",
	"total_generated_tests",
	"flaky_rate_pct",
	"pit_path",
	"jacoco_path",
	"idflakies_candidates",
}

// WriteCSVSummary appends a one-row summary to csvPath, writing the header
// only when the file is new. Flaky counts are overridden by the
// detection tooling's flaky-lists.json when one exists under the project
// root. Refuses with ErrUnderDetectionDir rather than creating anything
// under .dtfixingtools.
func WriteCSVSummary(s *Summary, csvPath string) error {
	var (
		lineCov    *float64
		mutScore   *float64
		flakyCount *int
		totalTests *int
		flakyRate  *float64
		pitPath    string
		jacocoPath string
		candidates string
	)
	if s.Jacoco != nil {
		lineCov = s.Jacoco.LineCoveragePct
		jacocoPath = s.Jacoco.Path
	}
	if s.Pit != nil {
		mutScore = s.Pit.ScorePct
		pitPath = s.Pit.Path
	}
	if s.Flaky != nil {
		fc := s.Flaky.FlakyCount
		flakyCount = &fc
		totalTests = s.Flaky.TotalTests
		flakyRate = s.Flaky.FlakyRatePct
		candidates = strings.Join(s.Flaky.Candidates, ";")
	}

	applyDetectionOverride(s.ProjectRoot, s.TargetClass, &flakyCount, &totalTests, &flakyRate)

	if dir := filepath.Dir(csvPath); dir != "" && dir != "." {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolve summary dir: %w", err)
		}
		detectionDir := filepath.Join(s.ProjectRoot, ".dtfixingtools")
		if absDir == detectionDir || strings.HasPrefix(absDir, detectionDir+string(os.PathSeparator)) {
			return ErrUnderDetectionDir
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create summary dir: %w", err)
		}
	}

	_, statErr := os.Stat(csvPath)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(csvPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open summary CSV %q: %w", csvPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("write summary header: %w", err)
		}
	}

	row := []string{
		timeNow().UTC().Format("2006-01-02T15:04:05.000000") + "Z",
		s.ProjectRoot,
		s.TargetClass,
		formatFloat(lineCov),
		formatFloat(mutScore),
		formatInt(flakyCount),
		formatInt(totalTests),
		formatFloat(flakyRate),
		pitPath,
		jacocoPath,
		candidates,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write summary row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush summary CSV: %w", err)
	}
	return nil
}

// detectionEntry is one per-class record in the legacy flaky-lists.json
// mapping format.
type detectionEntry struct {
	FlakyCount          *int     `json:"flaky_count"`
	TotalGeneratedTests *int     `json:"total_generated_tests"`
	TotalTests          *int     `json:"total_tests"`
	FlakyRatePct        *float64 `json:"flaky_rate_pct"`
}

// applyDetectionOverride prefers flaky counts recorded by the detection
// tooling in .dtfixingtools/detection-results/flaky-lists.json over the
// heuristic candidate scan. Two formats are supported: a legacy per-class
// mapping and the iDFlakies dts list. Read errors leave the heuristic
// values in place.
func applyDetectionOverride(projectRoot, targetClass string, flakyCount, totalTests **int, flakyRate **float64) {
	path := filepath.Join(projectRoot, ".dtfixingtools", "detection-results", "flaky-lists.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return
	}

	key := targetClass
	if key == "" {
		key = "project"
	}

	hasLegacyKeys := false
	for k := range doc {
		if k != "dts" {
			hasLegacyKeys = true
			break
		}
	}
	if hasLegacyKeys {
		raw, ok := doc[key]
		if !ok && strings.Contains(key, ".") {
			simple := key[strings.LastIndex(key, ".")+1:]
			raw, ok = doc[simple]
		}
		if ok {
			var entry detectionEntry
			if err := json.Unmarshal(raw, &entry); err == nil {
				if entry.FlakyCount != nil {
					*flakyCount = entry.FlakyCount
				}
				if entry.TotalGeneratedTests != nil && *entry.TotalGeneratedTests != 0 {
					*totalTests = entry.TotalGeneratedTests
				} else if entry.TotalTests != nil {
					*totalTests = entry.TotalTests
				}
				if entry.FlakyRatePct != nil {
					*flakyRate = entry.FlakyRatePct
				}
			}
		}
	}

	if raw, ok := doc["dts"]; ok {
		var dts []json.RawMessage
		if err := json.Unmarshal(raw, &dts); err == nil {
			if targetClass == "" {
				n := len(dts)
				*flakyCount = &n
				return
			}
			t := strings.ToLower(targetClass)
			simple := t
			if i := strings.LastIndex(t, "."); i >= 0 {
				simple = t[i+1:]
			}
			matches := 0
			for _, item := range dts {
				var named struct {
					Name string `json:"name"`
				}
				name := ""
				if err := json.Unmarshal(item, &named); err == nil && named.Name != "" {
					name = strings.ToLower(named.Name)
				} else {
					name = strings.ToLower(string(item))
				}
				if strings.Contains(name, t) || strings.Contains(name, simple) {
					matches++
				}
			}
			if matches > 0 {
				*flakyCount = &matches
			}
		}
	}
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
