package annotate

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/genqa/pkg/fsutil"
)

// DefaultTestsDirName is the generated-test folder inside each run.
const DefaultTestsDirName = "chatunitest-tests"

// runFolderRE matches run-folder names like 20251024T050124Z.
var runFolderRE = regexp.MustCompile(`^\d{8}T\d{6}Z`)

// droppedColumns are removed from the annotated CSV; they carry absolute
// paths and derived values that only make sense on the collecting machine.
var droppedColumns = []string{
	"total_generated_tests",
	"flaky_rate_pct",
	"pit_path",
	"jacoco_path",
	"idflakies_candidates",
}

// addedColumns are appended to the annotated CSV, in this order.
var addedColumns = []string{
	"num_public_methods",
	"num_test_files",
	"num_test_methods",
	"num_chatgpt_prompts",
	"total_prompt_tokens",
	"total_response_tokens",
}

// Options configures an annotation pass.
type Options struct {
	// RunsRoot is the directory holding the run backup folders.
	RunsRoot string

	// TestsDirName is the generated-test folder name inside each run.
	// Defaults to DefaultTestsDirName.
	TestsDirName string
}

// RunMapping records which run folder served a CSV row.
type RunMapping struct {
	Timestamp string
	Folder    string
}

// Report aggregates the interesting extremes of an annotation pass.
type Report struct {
	Rows               int
	Mappings           []RunMapping
	SortedOrderMapping bool
	MaxPromptTokens    int
	MaxResponseTokens  int
	MaxPublicMethods   int
	TotalPublicMethods int
}

// AnnotateCSV reads the quality-summary CSV at inPath, annotates each row
// with counters from its run folder, and writes the result to outPath.
//
// Rows map to run folders by lexical sort order when the folder count
// matches the row count; otherwise each row's timestamp is converted to
// the folder naming scheme, with a prefix match as a last resort.
func AnnotateCSV(inPath, outPath string, opts Options) (*Report, error) {
	if opts.TestsDirName == "" {
		opts.TestsDirName = DefaultTestsDirName
	}

	header, rows, err := readRows(inPath)
	if err != nil {
		return nil, err
	}

	fields := annotatedHeader(header)

	runs, err := candidateRuns(opts.RunsRoot)
	if err != nil {
		return nil, err
	}

	report := &Report{Rows: len(rows)}
	maxima := &TokenMaxima{}

	useSortedOrder := len(runs) == len(rows) && len(rows) > 0
	report.SortedOrderMapping = useSortedOrder
	for i, row := range rows {
		var folder string
		if useSortedOrder {
			folder = runs[i]
		} else {
			folder = resolveRunFolder(opts.RunsRoot, row["timestamp"])
		}
		report.Mappings = append(report.Mappings, RunMapping{
			Timestamp: row["timestamp"],
			Folder:    folder,
		})

		annotateRow(row, opts, folder, maxima, report)
	}

	report.MaxPromptTokens = maxima.Prompt
	report.MaxResponseTokens = maxima.Response

	if err := writeRows(outPath, fields, rows); err != nil {
		return nil, err
	}
	return report, nil
}

func annotateRow(row map[string]string, opts Options, folder string, maxima *TokenMaxima, report *Report) {
	runDir := ""
	if folder != "" {
		runDir = filepath.Join(opts.RunsRoot, folder)
	}

	testDir := ""
	historyDir := ""
	if runDir != "" {
		testDir = filepath.Join(runDir, opts.TestsDirName)
		historyDir = FindHistoryDir(runDir, row["project_root"])
	}

	targetClass := row["target_class"]
	publicMethods := CountPublicMethods(historyDir, targetClass)
	promptTokens, responseTokens := CountTokens(historyDir, maxima)

	if publicMethods > report.MaxPublicMethods {
		report.MaxPublicMethods = publicMethods
	}
	report.TotalPublicMethods += publicMethods

	row["backup_folder"] = folder
	row["num_class_methods"] = strconv.Itoa(CountClassMethods(runDir, row["project_root"], targetClass))
	row["num_public_methods"] = strconv.Itoa(publicMethods)
	row["num_test_files"] = strconv.Itoa(CountTestFiles(testDir))
	row["num_test_methods"] = strconv.Itoa(CountTestMethods(testDir))
	row["num_chatgpt_prompts"] = strconv.Itoa(CountPrompts(historyDir))
	row["total_prompt_tokens"] = strconv.Itoa(promptTokens)
	row["total_response_tokens"] = strconv.Itoa(responseTokens)
}

// annotatedHeader derives the output column list from the input header:
// path-ish columns dropped, backup_folder after timestamp,
// num_class_methods after flaky_count, counters appended.
func annotatedHeader(header []string) []string {
	fields := make([]string, 0, len(header)+8)
	for _, name := range header {
		if slices.Contains(droppedColumns, name) {
			continue
		}
		fields = append(fields, name)
	}

	if !slices.Contains(fields, "num_class_methods") {
		if i := slices.Index(fields, "flaky_count"); i >= 0 {
			fields = slices.Insert(fields, i+1, "num_class_methods")
		} else {
			fields = append(fields, "num_class_methods")
		}
	}
	if !slices.Contains(fields, "backup_folder") {
		if i := slices.Index(fields, "timestamp"); i >= 0 {
			fields = slices.Insert(fields, i+1, "backup_folder")
		} else {
			fields = slices.Insert(fields, 0, "backup_folder")
		}
	}
	for _, name := range addedColumns {
		if !slices.Contains(fields, name) {
			fields = append(fields, name)
		}
	}
	return fields
}

// candidateRuns lists run folders under root in sorted order.
func candidateRuns(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read runs root %q: %w", root, err)
	}
	var runs []string
	for _, e := range entries {
		if e.IsDir() && runFolderRE.MatchString(e.Name()) {
			runs = append(runs, e.Name())
		}
	}
	slices.Sort(runs)
	return runs, nil
}

// resolveRunFolder maps a CSV timestamp to a run folder name, accepting a
// prefix match when no folder carries the exact name. Returns "" when the
// timestamp cannot be mapped.
func resolveRunFolder(root, timestamp string) string {
	folder := TimestampToFolder(timestamp)
	if folder == "" {
		return ""
	}
	if isDir(filepath.Join(root, folder)) {
		return folder
	}

	prefix := strings.TrimRight(folder, "Z")
	entries, err := os.ReadDir(root)
	if err != nil {
		return ""
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return ""
	}
	slices.Sort(names)
	return names[0]
}

func readRows(path string) (header []string, rows []map[string]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open CSV %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err = r.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("CSV %q is empty", path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read CSV %q: %w", path, err)
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read CSV %q: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func writeRows(path string, fields []string, rows []map[string]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(fields); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, row := range rows {
		if root := row["project_root"]; root != "" {
			row["project_root"] = filepath.Base(root)
		}
		record := make([]string, len(fields))
		for i, name := range fields {
			record[i] = row[name]
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode CSV: %w", err)
	}

	if err := fsutil.WriteAtomic(path, buf.Bytes(), 0); err != nil {
		return fmt.Errorf("write CSV %q: %w", path, err)
	}
	return nil
}
