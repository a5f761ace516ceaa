// Package resources implements MCP resource handlers.
//
// Resources provide read-only data the host can consume for context,
// addressed by scout:// URIs following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/planscout/planscout/internal/config"
	"github.com/planscout/planscout/internal/history"
)

// Handler manages the scout resource endpoints.
type Handler struct {
	cfg   config.Config
	store *history.Store
}

// NewHandler creates a resource Handler. store may be nil when the
// history subsystem is disabled.
func NewHandler(cfg config.Config, store *history.Store) *Handler {
	return &Handler{cfg: cfg, store: store}
}

// ConfigResource returns the MCP resource definition for the active
// configuration.
func (h *Handler) ConfigResource() mcp.Resource {
	return mcp.NewResource(
		"scout://config",
		"Research Configuration",
		mcp.WithResourceDescription("Active rate-limit and research settings"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleConfig returns the research-relevant settings as JSON.
func (h *Handler) HandleConfig(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	view := map[string]any{
		"max_triggers":         h.cfg.MaxTriggers,
		"rate_limit_ttl":       h.cfg.TTL.String(),
		"confidence_threshold": h.cfg.ConfidenceThreshold,
		"research_timeout":     h.cfg.Timeout.String(),
		"docs_configured":      h.cfg.DocsAPIKey != "",
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// StatsResource returns the MCP resource definition for aggregate
// research statistics.
func (h *Handler) StatsResource() mcp.Resource {
	return mcp.NewResource(
		"scout://research/stats",
		"Research Statistics",
		mcp.WithResourceDescription("Aggregate auto-research attempt statistics"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStats returns attempt statistics from the history store.
func (h *Handler) HandleStats(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.store == nil {
		return errorResource(req.Params.URI, "research history is unavailable"), nil
	}

	stats, err := h.store.GetStats(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling stats: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
