package transfer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepair(t *testing.T) {
	t.Run("renames tage to tags", func(t *testing.T) {
		prompts := []PromptRecord{{
			Title:    "p",
			Versions: []VersionRecord{{Tage: []string{"x"}}},
		}}
		Repair(prompts)
		assert.Equal(t, []string{"x"}, prompts[0].Versions[0].Tags)
		assert.Nil(t, prompts[0].Versions[0].Tage)
	})

	t.Run("existing tags are left alone", func(t *testing.T) {
		prompts := []PromptRecord{{
			Title:    "p",
			Versions: []VersionRecord{{Tags: []string{"y"}}},
		}}
		Repair(prompts)
		assert.Equal(t, []string{"y"}, prompts[0].Versions[0].Tags)
	})

	t.Run("tags wins over tage when both present", func(t *testing.T) {
		prompts := []PromptRecord{{
			Title:    "p",
			Versions: []VersionRecord{{Tags: []string{"y"}, Tage: []string{"x"}}},
		}}
		Repair(prompts)
		assert.Equal(t, []string{"y"}, prompts[0].Versions[0].Tags)
		assert.Nil(t, prompts[0].Versions[0].Tage)
	})
}

func TestParse(t *testing.T) {
	t.Run("repairs and assigns preview ids", func(t *testing.T) {
		data := []byte(`[
			{"title":"first","versions":[{"title":"v1","tage":["a","b"]}]},
			{"id":"p-2","title":"second"}
		]`)
		prompts, err := Parse(data)
		require.NoError(t, err)
		require.Len(t, prompts, 2)

		assert.NotEmpty(t, prompts[0].ID)
		assert.NotEmpty(t, prompts[0].Versions[0].ID)
		assert.Equal(t, []string{"a", "b"}, prompts[0].Versions[0].Tags)
		assert.Equal(t, "p-2", prompts[1].ID)
	})

	t.Run("malformed JSON aborts", func(t *testing.T) {
		_, err := Parse([]byte(`{"title": "not an array"`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid prompt snapshot")
	})
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"p-1","title":"t"}]`), 0644))

	prompts, err := ParseFile(path)
	require.NoError(t, err)
	want := []PromptRecord{{ID: "p-1", Title: "t"}}
	if diff := cmp.Diff(want, prompts); diff != "" {
		t.Errorf("parsed prompts mismatch (-want +got):\n%s", diff)
	}

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestWriteExport(t *testing.T) {
	t.Run("writes pretty JSON to named file", func(t *testing.T) {
		dir := t.TempDir()
		path, err := WriteExport(filepath.Join(dir, "out.json"), json.RawMessage(`[{"id":"p-1"}]`))
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "\"id\": \"p-1\"")
	})

	t.Run("directory target uses default name", func(t *testing.T) {
		dir := t.TempDir()
		path, err := WriteExport(dir, json.RawMessage(`[]`))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, ExportFileName), path)
	})
}
