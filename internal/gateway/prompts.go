package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"promptvault/internal/vault"
)

// wireSummary is a prompt summary as the backend sends it. Older
// backends emit Mongo-style "_id"; both spellings are accepted.
type wireSummary struct {
	MongoID   string    `json:"_id"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	IsDeleted bool      `json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
}

func (w wireSummary) id() string {
	if w.MongoID != "" {
		return w.MongoID
	}
	return w.ID
}

// wireVersion mirrors the backend's version record: the content lives
// under afterObject and versionNumber may be absent entirely.
type wireVersion struct {
	MongoID       string       `json:"_id"`
	ID            string       `json:"id"`
	VersionNumber *json.Number `json:"versionNumber"`
	AfterObject   *struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
		Status      string   `json:"status"`
	} `json:"afterObject"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListPrompts fetches prompt summaries, optionally filtered by a
// search term and the archived flag.
func (c *Client) ListPrompts(ctx context.Context, search string, archived bool) ([]vault.Summary, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	query.Set("isDeleted", strconv.FormatBool(archived))

	data, err := c.do(ctx, "list prompts", http.MethodGet, "/prompts", query, nil, true)
	if err != nil {
		return nil, err
	}

	var wire []wireSummary
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("list prompts: decoding payload: %w", err)
	}

	summaries := make([]vault.Summary, 0, len(wire))
	for _, w := range wire {
		summaries = append(summaries, vault.Summary{
			ID:        w.id(),
			Title:     w.Title,
			IsDeleted: w.IsDeleted,
			CreatedAt: w.CreatedAt,
		})
	}
	return summaries, nil
}

// ListVersions fetches the complete version history for a prompt.
func (c *Client) ListVersions(ctx context.Context, promptID string) ([]vault.RawVersion, error) {
	data, err := c.do(ctx, "list versions", http.MethodGet, "/prompts/"+promptID+"/versions", nil, nil, true)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Versions []wireVersion `json:"versions"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("list versions: decoding payload: %w", err)
	}

	raw := make([]vault.RawVersion, 0, len(payload.Versions))
	for _, w := range payload.Versions {
		r := vault.RawVersion{
			ID:        w.MongoID,
			Timestamp: w.CreatedAt,
		}
		if r.ID == "" {
			r.ID = w.ID
		}
		if w.VersionNumber != nil {
			r.Number = w.VersionNumber.String()
		}
		if w.AfterObject != nil {
			r.Title = w.AfterObject.Title
			r.Description = w.AfterObject.Description
			r.Tags = w.AfterObject.Tags
			r.Status = w.AfterObject.Status
		}
		raw = append(raw, r)
	}
	return raw, nil
}

// CreatePrompt persists a new prompt and returns the new id plus the
// fields of the first generated version.
func (c *Client) CreatePrompt(ctx context.Context, title, description string, tags []string) (vault.Created, error) {
	body := map[string]interface{}{
		"title":       title,
		"description": description,
		"tags":        tags,
	}
	data, err := c.do(ctx, "create prompt", http.MethodPost, "/prompts", nil, body, true)
	if err != nil {
		return vault.Created{}, err
	}

	var payload struct {
		PromptID string `json:"promptId"`
		Version  struct {
			Title       string   `json:"title"`
			Description string   `json:"description"`
			Tags        []string `json:"tags"`
		} `json:"version"`
		IsDeleted bool      `json:"isDeleted"`
		CreatedAt time.Time `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return vault.Created{}, fmt.Errorf("create prompt: decoding payload: %w", err)
	}

	return vault.Created{
		PromptID:    payload.PromptID,
		Title:       payload.Version.Title,
		Description: payload.Version.Description,
		Tags:        payload.Version.Tags,
		IsDeleted:   payload.IsDeleted,
		CreatedAt:   payload.CreatedAt,
	}, nil
}

// UpdatePrompt submits an edit, producing a new version server-side,
// and returns the latest version's fields.
func (c *Client) UpdatePrompt(ctx context.Context, promptID, title, description string, tags []string) (vault.Updated, error) {
	body := map[string]interface{}{
		"title":       title,
		"description": description,
		"tags":        tags,
	}
	data, err := c.do(ctx, "update prompt", http.MethodPatch, "/prompts/"+promptID, nil, body, true)
	if err != nil {
		return vault.Updated{}, err
	}

	var payload struct {
		Version struct {
			Title       string   `json:"title"`
			Description string   `json:"description"`
			Tags        []string `json:"tags"`
		} `json:"version"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return vault.Updated{}, fmt.Errorf("update prompt: decoding payload: %w", err)
	}

	return vault.Updated{
		Title:       payload.Version.Title,
		Description: payload.Version.Description,
		Tags:        payload.Version.Tags,
	}, nil
}

// ArchivePrompt soft-deletes a prompt. Idempotent.
func (c *Client) ArchivePrompt(ctx context.Context, promptID string) error {
	_, err := c.do(ctx, "archive prompt", http.MethodPatch, "/prompts/"+promptID+"/archive", nil, struct{}{}, true)
	return err
}

// RestorePrompt clears a prompt's archived flag. Idempotent.
func (c *Client) RestorePrompt(ctx context.Context, promptID string) error {
	_, err := c.do(ctx, "restore prompt", http.MethodPatch, "/prompts/"+promptID+"/restore", nil, struct{}{}, true)
	return err
}
