package metrics

import (
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// JacocoMetrics summarizes instruction and line coverage from a JaCoCo
// report. Percentages are nil when the report covers zero units.
type JacocoMetrics struct {
	Path                   string   `json:"path"`
	InstructionCovered     int      `json:"instruction_covered"`
	InstructionMissed      int      `json:"instruction_missed"`
	InstructionCoveragePct *float64 `json:"instruction_coverage_pct"`
	LineCovered            int      `json:"line_covered"`
	LineMissed             int      `json:"line_missed"`
	LineCoveragePct        *float64 `json:"line_coverage_pct"`
	Error                  string   `json:"error,omitempty"`
}

// ParseJacoco parses a JaCoCo report, dispatching on the file extension.
// The class filter only applies to the CSV format; the XML report nests
// counters per class and the CSV is the canonical per-class source.
func ParseJacoco(path, targetClass string) (*JacocoMetrics, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ParseJacocoCSV(path, targetClass)
	}
	return ParseJacocoXML(path)
}

// ParseJacocoCSV parses a jacoco.csv report. Rows with non-numeric counter
// cells are skipped. A missing file yields (nil, nil).
//
// When targetClass is non-empty, only rows whose CLASS column matches it
// (simple name, PACKAGE.CLASS, or suffix after a dot) are aggregated.
func ParseJacocoCSV(path, targetClass string) (*JacocoMetrics, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open JaCoCo report %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return &JacocoMetrics{Path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read JaCoCo report %q: %w", path, err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	m := &JacocoMetrics{Path: path}
	target := strings.ToLower(targetClass)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read JaCoCo report %q: %w", path, err)
		}

		if target != "" {
			cls := strings.TrimSpace(cell(row, col, "CLASS"))
			pkg := strings.TrimSpace(cell(row, col, "PACKAGE"))
			full := strings.Trim(pkg+"."+cls, ".")
			lc := strings.ToLower(cls)
			if lc != target && strings.ToLower(full) != target && !strings.HasSuffix(lc, "."+target) {
				continue
			}
		}

		im, ok1 := cellInt(row, col, "INSTRUCTION_MISSED")
		ic, ok2 := cellInt(row, col, "INSTRUCTION_COVERED")
		lm, ok3 := cellInt(row, col, "LINE_MISSED")
		lc, ok4 := cellInt(row, col, "LINE_COVERED")
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		m.InstructionMissed += im
		m.InstructionCovered += ic
		m.LineMissed += lm
		m.LineCovered += lc
	}

	m.finishPercentages()
	return m, nil
}

// ParseJacocoXML parses a jacoco.xml report by summing every counter
// element of type INSTRUCTION or LINE. A missing file yields (nil, nil).
func ParseJacocoXML(path string) (*JacocoMetrics, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read JaCoCo report %q: %w", path, err)
	}

	m := &JacocoMetrics{Path: path}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse JaCoCo report %q: %w", path, err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "counter" {
			continue
		}

		var typ string
		var covered, missed int
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "type":
				typ = attr.Value
			case "covered":
				covered, _ = strconv.Atoi(attr.Value)
			case "missed":
				missed, _ = strconv.Atoi(attr.Value)
			}
		}
		switch typ {
		case "INSTRUCTION":
			m.InstructionCovered += covered
			m.InstructionMissed += missed
		case "LINE":
			m.LineCovered += covered
			m.LineMissed += missed
		}
	}

	m.finishPercentages()
	return m, nil
}

func (m *JacocoMetrics) finishPercentages() {
	if total := m.InstructionCovered + m.InstructionMissed; total > 0 {
		pct := round2(float64(m.InstructionCovered) / float64(total) * 100.0)
		m.InstructionCoveragePct = &pct
	}
	if total := m.LineCovered + m.LineMissed; total > 0 {
		pct := round2(float64(m.LineCovered) / float64(total) * 100.0)
		m.LineCoveragePct = &pct
	}
}

func cell(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// cellInt reads a numeric counter cell; an absent or empty cell counts
// as zero, a malformed one poisons the whole row.
func cellInt(row []string, col map[string]int, name string) (int, bool) {
	s := strings.TrimSpace(cell(row, col, name))
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
