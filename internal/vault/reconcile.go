package vault

import (
	"sort"
	"strconv"
)

// Normalize maps wire version records to canonical Versions, filling
// defaults for missing fields: empty tag list, empty description,
// status "active", version number "1", title "Untitled".
func Normalize(raw []RawVersion) []Version {
	versions := make([]Version, 0, len(raw))
	for _, r := range raw {
		v := Version{
			ID:          r.ID,
			Number:      r.Number,
			Title:       r.Title,
			Description: r.Description,
			Tags:        r.Tags,
			Timestamp:   r.Timestamp,
			Status:      r.Status,
		}
		if v.Number == "" {
			v.Number = "1"
		}
		if v.Title == "" {
			v.Title = "Untitled"
		}
		if v.Tags == nil {
			v.Tags = []string{}
		}
		if v.Status == "" {
			v.Status = "active"
		}
		versions = append(versions, v)
	}
	return versions
}

// numericVersion parses a version number the way the picker orders
// them; unparseable numbers sort as zero.
func numericVersion(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// SortDescending orders versions by descending numeric version number.
// Records sharing a number keep their relative input order; which of
// them ends up "latest" is deliberately unspecified.
func SortDescending(versions []Version) {
	sort.SliceStable(versions, func(i, j int) bool {
		return numericVersion(versions[i].Number) > numericVersion(versions[j].Number)
	})
}

// Latest returns the version with the highest numeric number.
func Latest(versions []Version) (Version, bool) {
	if len(versions) == 0 {
		return Version{}, false
	}
	best := versions[0]
	for _, v := range versions[1:] {
		if numericVersion(v.Number) > numericVersion(best.Number) {
			best = v
		}
	}
	return best, true
}

// Reconcile merges the latest version's content into the display
// record, preserving its identity fields (id, isDeleted, createdAt).
// An empty version list keeps the title from the summary that
// triggered selection and substitutes the no-description placeholder.
func Reconcile(display *Prompt, versions []Version) {
	if display == nil {
		return
	}
	latest, ok := Latest(versions)
	if !ok {
		display.Description = PlaceholderNoDescription
		display.Tags = []string{}
		return
	}
	display.Title = latest.Title
	display.Description = latest.Description
	display.Tags = latest.Tags
}

// ReconcileError applies the fetch-failure placeholders. The title is
// left untouched; the failure is non-fatal.
func ReconcileError(display *Prompt) {
	if display == nil {
		return
	}
	display.Description = PlaceholderLoadError
	display.Tags = []string{}
}
