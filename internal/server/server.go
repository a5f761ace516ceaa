// Package server wires all MCP components and creates the server
// instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on
// abstractions. No business logic lives here — only wiring.
package server

import (
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/planscout/planscout/internal/confidence"
	"github.com/planscout/planscout/internal/config"
	"github.com/planscout/planscout/internal/history"
	"github.com/planscout/planscout/internal/logging"
	"github.com/planscout/planscout/internal/prompts"
	"github.com/planscout/planscout/internal/providers"
	"github.com/planscout/planscout/internal/ratelimit"
	"github.com/planscout/planscout/internal/research"
	"github.com/planscout/planscout/internal/resources"
	"github.com/planscout/planscout/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function flushes the logger and closes the
// history store's database connection; it must be called on shutdown
// (typically via defer) and is always non-nil, even if history init
// failed.
func New() (*server.MCPServer, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, noop, err
	}

	log, err := logging.New(cfg.Debug)
	if err != nil {
		return nil, noop, fmt.Errorf("creating logger: %w", err)
	}

	// --- Create shared dependencies ---

	limiter := ratelimit.New(cfg.TTL)
	scorer := confidence.NewHeuristic()

	httpClient := &http.Client{Timeout: cfg.Timeout}
	provs := []providers.Provider{
		providers.NewDocs(httpClient, cfg.DocsBaseURL, cfg.DocsAPIKey),
		providers.NewWebSearch(httpClient, cfg.SearchBaseURL, cfg.UserAgent),
	}

	// History is an independent subsystem: if it fails to initialize,
	// research tools keep working without the audit log. We log a
	// warning and skip the history-backed surfaces.
	cleanup := func() { _ = log.Sync() }
	histStore, histErr := history.New(history.Config{DataDir: cfg.DataDir})
	if histErr != nil {
		log.Warn("research history disabled", zap.Error(histErr))
		histStore = nil
	} else {
		cleanup = func() {
			if err := histStore.Close(); err != nil {
				log.Warn("closing history store", zap.Error(err))
			}
			_ = log.Sync()
		}
	}

	var recorder research.Recorder
	if histStore != nil {
		recorder = histStore
	}

	trigger := research.New(limiter, scorer, provs, recorder, log, research.Options{
		MaxTriggers: cfg.MaxTriggers,
		Threshold:   cfg.ConfidenceThreshold,
		Timeout:     cfg.Timeout,
	})

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"planscout",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register research tools ---

	researchTool := tools.NewResearchTool(trigger, scorer)
	s.AddTool(researchTool.Definition(), researchTool.Handle)

	assessTool := tools.NewAssessTool(scorer)
	s.AddTool(assessTool.Definition(), assessTool.Handle)

	budgetTool := tools.NewBudgetTool(limiter, cfg.MaxTriggers)
	s.AddTool(budgetTool.Definition(), budgetTool.Handle)

	budgetResetTool := tools.NewBudgetResetTool(limiter)
	s.AddTool(budgetResetTool.Definition(), budgetResetTool.Handle)

	// History tool registered unconditionally — it handles a nil
	// store internally by reporting that history is unavailable.
	historyTool := tools.NewHistoryTool(histStore)
	s.AddTool(historyTool.Definition(), historyTool.Handle)

	// --- Register prompts ---

	planPrompt := prompts.NewPlanPrompt()
	s.AddPrompt(planPrompt.Definition(), planPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(cfg, histStore)
	s.AddResource(resourceHandler.ConfigResource(), resourceHandler.HandleConfig)
	s.AddResource(resourceHandler.StatsResource(), resourceHandler.HandleStats)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default before the
// logger and history store exist.
func noop() {}

func serverInstructions() string {
	return `planscout scores confidence in planning recommendations and runs
rate-limited automatic research when confidence is low.

Workflow: call confidence_assess with factor estimates; when the score
is below the threshold, call research_trigger with the same factors and
a focused query. Reuse one session_id for the whole planning session —
it is the unit of rate-limit accounting (default 10 successful research
passes per 24h window). research_trigger never fails: a denied or
degraded pass returns the original confidence with "triggered": false.
Inspect usage with research_budget and past passes with
research_history.`
}
