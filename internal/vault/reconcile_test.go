package vault

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaults(t *testing.T) {
	raw := []RawVersion{
		{ID: "v1"},
		{ID: "v2", Number: "3", Title: "named", Description: "d", Tags: []string{"a"}, Status: "archived"},
	}

	versions := Normalize(raw)
	require.Len(t, versions, 2)

	t.Run("missing fields get defaults", func(t *testing.T) {
		assert.Equal(t, "1", versions[0].Number)
		assert.Equal(t, "Untitled", versions[0].Title)
		assert.Equal(t, "", versions[0].Description)
		assert.Equal(t, []string{}, versions[0].Tags)
		assert.Equal(t, "active", versions[0].Status)
	})

	t.Run("present fields pass through", func(t *testing.T) {
		assert.Equal(t, "3", versions[1].Number)
		assert.Equal(t, "named", versions[1].Title)
		assert.Equal(t, []string{"a"}, versions[1].Tags)
		assert.Equal(t, "archived", versions[1].Status)
	})
}

func TestLatestUsesNumericOrder(t *testing.T) {
	// String ordering would wrongly pick "2" here.
	versions := []Version{
		{ID: "a", Number: "1"},
		{ID: "b", Number: "2"},
		{ID: "c", Number: "10"},
	}

	latest, ok := Latest(versions)
	require.True(t, ok)
	assert.Equal(t, "10", latest.Number)
	assert.Equal(t, "c", latest.ID)
}

func TestSortDescending(t *testing.T) {
	versions := []Version{
		{ID: "a", Number: "2"},
		{ID: "b", Number: "10"},
		{ID: "c", Number: "1"},
	}
	SortDescending(versions)

	got := []string{versions[0].Number, versions[1].Number, versions[2].Number}
	assert.Equal(t, []string{"10", "2", "1"}, got)
}

func TestSortDescendingDuplicateNumbersPickConsistently(t *testing.T) {
	// Order between equal numbers is undefined; the only guarantee is
	// that repeated sorts of the same input pick the same winner.
	versions := []Version{
		{ID: "a", Number: "2"},
		{ID: "b", Number: "2"},
	}
	SortDescending(versions)
	first := versions[0].ID

	again := []Version{
		{ID: "a", Number: "2"},
		{ID: "b", Number: "2"},
	}
	SortDescending(again)
	assert.Equal(t, first, again[0].ID)
}

func TestReconcile(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("merges latest version fields", func(t *testing.T) {
		display := &Prompt{ID: "p1", Title: "sidebar title", IsDeleted: false, CreatedAt: created}
		versions := []Version{
			{ID: "v1", Number: "1", Title: "old", Description: "old desc"},
			{ID: "v2", Number: "2", Title: "new", Description: "new desc", Tags: []string{"t"}},
		}

		Reconcile(display, versions)

		assert.Equal(t, "new", display.Title)
		assert.Equal(t, "new desc", display.Description)
		assert.Equal(t, []string{"t"}, display.Tags)
		assert.Equal(t, "p1", display.ID)
		assert.Equal(t, created, display.CreatedAt)
		assert.False(t, display.IsDeleted)
	})

	t.Run("empty history keeps title and sets placeholder", func(t *testing.T) {
		display := &Prompt{ID: "p1", Title: "sidebar title", CreatedAt: created}
		Reconcile(display, nil)

		assert.Equal(t, "sidebar title", display.Title)
		assert.Equal(t, PlaceholderNoDescription, display.Description)
		assert.Equal(t, []string{}, display.Tags)
	})
}

func TestReconcileError(t *testing.T) {
	display := &Prompt{ID: "p1", Title: "kept title", Description: "stale"}
	ReconcileError(display)

	assert.Equal(t, "kept title", display.Title)
	assert.Equal(t, PlaceholderLoadError, display.Description)
	assert.Equal(t, []string{}, display.Tags)
}
