package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"promptvault/internal/transfer"
)

// ExportAll fetches the full prompt snapshot as a raw JSON blob,
// ready to be written to a prompts.json file.
func (c *Client) ExportAll(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, "export", http.MethodGet, "/data/export", nil, nil, true)
}

// ImportAll posts a repaired prompt batch for persistence.
func (c *Client) ImportAll(ctx context.Context, prompts []transfer.PromptRecord) error {
	body := map[string]interface{}{"prompts": prompts}
	_, err := c.do(ctx, "import", http.MethodPost, "/data/import", nil, body, true)
	return err
}
