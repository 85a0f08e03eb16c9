// Package transfer implements the bulk import/export pipeline: JSON
// (de)serialization of prompt snapshots plus a repair pass for a known
// malformed key in files produced by older exports.
package transfer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ExportFileName is the default name for exported snapshots.
const ExportFileName = "prompts.json"

// VersionRecord is one version entry inside an imported prompt. Older
// export files wrote the tags slice under the misspelled key "tage";
// both spellings are accepted and Repair normalizes to "tags".
type VersionRecord struct {
	ID            string   `json:"id,omitempty"`
	VersionNumber string   `json:"versionNumber,omitempty"`
	Title         string   `json:"title,omitempty"`
	Description   string   `json:"description,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Tage          []string `json:"tage,omitempty"`
	Status        string   `json:"status,omitempty"`
	CreatedAt     string   `json:"createdAt,omitempty"`
}

// PromptRecord is one prompt entry in an import file, optionally
// carrying its full version history.
type PromptRecord struct {
	ID          string          `json:"id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	IsDeleted   bool            `json:"isDeleted,omitempty"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	Versions    []VersionRecord `json:"versions,omitempty"`
}

// Repair normalizes every version record in place: a slice stored under
// "tage" is moved to Tags unless Tags is already populated, in which
// case Tags wins and the misspelled copy is dropped.
func Repair(prompts []PromptRecord) {
	for pi := range prompts {
		for vi := range prompts[pi].Versions {
			v := &prompts[pi].Versions[vi]
			if v.Tags == nil && v.Tage != nil {
				v.Tags = v.Tage
			}
			v.Tage = nil
		}
	}
}

// Parse decodes an import file payload, runs the repair pass, and
// assigns preview ids to records that arrived without one. Malformed
// JSON aborts the import before any state is touched.
func Parse(data []byte) ([]PromptRecord, error) {
	var prompts []PromptRecord
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("import file is not a valid prompt snapshot: %w", err)
	}
	Repair(prompts)
	for i := range prompts {
		if prompts[i].ID == "" {
			prompts[i].ID = uuid.NewString()
		}
		for vi := range prompts[i].Versions {
			if prompts[i].Versions[vi].ID == "" {
				prompts[i].Versions[vi].ID = uuid.NewString()
			}
		}
	}
	return prompts, nil
}

// ParseFile reads and parses an import file from disk.
func ParseFile(path string) ([]PromptRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	return Parse(data)
}

// WriteExport writes a backend snapshot to path. When path is a
// directory (or empty), the snapshot lands in ExportFileName inside it.
func WriteExport(path string, blob json.RawMessage) (string, error) {
	if path == "" {
		path = ExportFileName
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, ExportFileName)
	}

	// Pretty-print when the blob is valid JSON, pass through otherwise.
	out := []byte(blob)
	var buf interface{}
	if err := json.Unmarshal(blob, &buf); err == nil {
		if pretty, err := json.MarshalIndent(buf, "", "  "); err == nil {
			out = pretty
		}
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
