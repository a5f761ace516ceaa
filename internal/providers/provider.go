// Package providers implements the external research collaborators the
// auto-research trigger fans out to: a curated documentation lookup and
// a general web search. Each provider is independent — the trigger
// isolates failures per source, so one outage never discards the other
// source's result.
package providers

import "context"

// Finding is one provider's research output: an opaque payload plus a
// human-readable reference string describing where it came from.
type Finding struct {
	Provider  string `json:"provider"`
	Reference string `json:"reference"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// Provider is a single external research source.
type Provider interface {
	// Name identifies the provider in logs and findings.
	Name() string
	// Lookup researches the query, optionally narrowed by focus
	// topics. The context carries the trigger's deadline; providers
	// must honor cancellation so a timed-out race actually releases
	// the in-flight call.
	Lookup(ctx context.Context, query string, focus []string) (*Finding, error)
}
