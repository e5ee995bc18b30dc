// Package metrics collects test-quality metrics from locally generated
// reports: PIT mutation testing, JaCoCo coverage, and iDFlakies flaky-test
// detection. Missing reports degrade to nil sections rather than errors.
package metrics

import (
	"encoding/xml"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// PitMetrics summarizes one PIT mutations.xml report.
type PitMetrics struct {
	Path       string   `json:"path"`
	Total      int      `json:"total"`
	Killed     int      `json:"killed"`
	Survived   int      `json:"survived"`
	NoCoverage int      `json:"no_coverage"`
	ScorePct   *float64 `json:"score_pct"`
	Error      string   `json:"error,omitempty"`
}

type pitMutation struct {
	Detected     string `xml:"detected,attr"`
	Status       string `xml:"status,attr"`
	SourceFile   string `xml:"sourceFile"`
	MutatedClass string `xml:"mutatedClass"`
}

type pitReport struct {
	XMLName   xml.Name      `xml:"mutations"`
	Mutations []pitMutation `xml:"mutation"`
}

// ParsePitMutations parses a PIT mutations.xml report and computes the
// mutation score over covered mutations only: NO_COVERAGE mutations are
// excluded from the denominator. A missing file yields (nil, nil).
//
// When targetClass is non-empty, only mutations whose mutated class matches
// it are counted. The match accepts a fully qualified name, a simple class
// name, or the source file's stem, case-insensitively.
func ParsePitMutations(path, targetClass string) (*PitMetrics, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read PIT report %q: %w", path, err)
	}

	var report pitReport
	if err := xml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse PIT report %q: %w", path, err)
	}

	m := &PitMetrics{Path: path}
	target := strings.ToLower(targetClass)
	for _, mut := range report.Mutations {
		if target != "" && !pitMatchesTarget(mut, target) {
			continue
		}

		m.Total++
		switch strings.ToUpper(mut.Status) {
		case "KILLED":
			m.Killed++
		case "SURVIVED":
			m.Survived++
		case "NO_COVERAGE":
			m.NoCoverage++
		default:
			// Old PIT versions omit status; the detected attribute is
			// the next best signal.
			switch strings.ToLower(mut.Detected) {
			case "true", "yes":
				m.Killed++
			default:
				m.Survived++
			}
		}
	}

	if covered := m.Killed + m.Survived; covered > 0 {
		score := round2(float64(m.Killed) / float64(covered) * 100.0)
		m.ScorePct = &score
	}
	return m, nil
}

func pitMatchesTarget(mut pitMutation, target string) bool {
	mutated := strings.ToLower(mut.MutatedClass)
	simple := mutated
	if i := strings.LastIndex(mutated, "."); i >= 0 {
		simple = mutated[i+1:]
	}
	base := filepath.Base(mut.SourceFile)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	return target == mutated || target == simple || target == stem
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
