// Package codex groups the campaign codex service: typed entity records with
// directed relationship links, session trail resolution, and narrative
// summary generation.
package codex
