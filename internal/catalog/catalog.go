// Package catalog assembles the product catalog feature: the upstream
// gateway, enrichment, and the query and command handlers behind the
// HTTP delivery layer.
package catalog

// BaseURL distinguishes the upstream address from other string parameters
type BaseURL string
