package annotate

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// TokenMaxima tracks the largest single-record token counts seen across
// an annotation pass.
type TokenMaxima struct {
	Prompt   int
	Response int
}

// CountPrompts totals prompt messages across every records.json under
// historyDir. Records with a prompt array contribute its length; records
// without one count as a single prompt. Files that are not one JSON value
// fall back to NDJSON, one record per line, skipping malformed lines.
func CountPrompts(historyDir string) int {
	total := 0
	forEachRecordsFile(historyDir, func(data []byte) {
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err == nil {
			for _, raw := range list {
				total += promptCount(raw)
			}
			return
		}
		var single map[string]json.RawMessage
		if err := json.Unmarshal(data, &single); err == nil {
			total += promptCountFields(single)
			return
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			var obj map[string]json.RawMessage
			if err := json.Unmarshal([]byte(line), &obj); err != nil {
				continue
			}
			total += promptCountFields(obj)
		}
	})
	return total
}

// CountTokens totals promptToken and responseToken over the record arrays
// in every records.json under historyDir, updating maxima along the way.
func CountTokens(historyDir string, maxima *TokenMaxima) (promptTokens, responseTokens int) {
	forEachRecordsFile(historyDir, func(data []byte) {
		var list []struct {
			PromptToken   int `json:"promptToken"`
			ResponseToken int `json:"responseToken"`
		}
		if err := json.Unmarshal(data, &list); err != nil {
			return
		}
		for _, rec := range list {
			promptTokens += rec.PromptToken
			responseTokens += rec.ResponseToken
			if maxima != nil {
				if rec.PromptToken > maxima.Prompt {
					maxima.Prompt = rec.PromptToken
				}
				if rec.ResponseToken > maxima.Response {
					maxima.Response = rec.ResponseToken
				}
			}
		}
	})
	return promptTokens, responseTokens
}

func promptCount(raw json.RawMessage) int {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 1
	}
	return promptCountFields(obj)
}

func promptCountFields(obj map[string]json.RawMessage) int {
	raw, ok := obj["prompt"]
	if !ok {
		return 1
	}
	var prompts []json.RawMessage
	if err := json.Unmarshal(raw, &prompts); err != nil {
		return 1
	}
	return len(prompts)
}

func forEachRecordsFile(dir string, fn func(data []byte)) {
	if dir == "" {
		return
	}
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || d.Name() != "records.json" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		fn(data)
		return nil
	})
}
