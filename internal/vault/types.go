// Package vault implements the client-side orchestration core: the
// prompt list store, the version reconciliation engine, and the
// selection/edit state machine that ties them to the backend gateway.
package vault

import (
	"context"
	"time"

	"promptvault/internal/transfer"
)

// Display placeholders shown while version data is pending or missing.
const (
	PlaceholderLoading       = "Loading description..."
	PlaceholderNoDescription = "No description available."
	PlaceholderLoadError     = "Error loading description."
)

// Summary is the lightweight prompt record shown in the sidebar list.
// Its title is frozen at creation time and never patched by later
// edits; the sidebar label stays stable as an identifier.
type Summary struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	IsDeleted   bool
	CreatedAt   time.Time
}

// Prompt is the full display record for the selected prompt. Its
// title/description/tags track the latest version after reconciliation.
type Prompt struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	IsDeleted   bool
	CreatedAt   time.Time
}

// Version is an immutable snapshot of a prompt's content. Number is a
// numeric string; ordering is by its numeric value, not string order.
type Version struct {
	ID          string
	Number      string
	Title       string
	Description string
	Tags        []string
	Timestamp   time.Time
	Status      string
}

// RawVersion is a version record as decoded off the wire, before
// normalization fills in defaults for missing fields.
type RawVersion struct {
	ID          string
	Number      string
	Title       string
	Description string
	Tags        []string
	Status      string
	Timestamp   time.Time
}

// Created is the gateway's response to a prompt creation: the new
// prompt id plus the fields of its first generated version.
type Created struct {
	PromptID    string
	Title       string
	Description string
	Tags        []string
	IsDeleted   bool
	CreatedAt   time.Time
}

// Updated carries the latest-version fields returned by an update.
type Updated struct {
	Title       string
	Description string
	Tags        []string
}

// Gateway is the slice of the backend API the workspace consumes. The
// concrete implementation lives in internal/gateway.
type Gateway interface {
	ListPrompts(ctx context.Context, search string, archived bool) ([]Summary, error)
	ListVersions(ctx context.Context, promptID string) ([]RawVersion, error)
	CreatePrompt(ctx context.Context, title, description string, tags []string) (Created, error)
	UpdatePrompt(ctx context.Context, promptID, title, description string, tags []string) (Updated, error)
	ArchivePrompt(ctx context.Context, promptID string) error
	RestorePrompt(ctx context.Context, promptID string) error
	ImportAll(ctx context.Context, prompts []transfer.PromptRecord) error
}
