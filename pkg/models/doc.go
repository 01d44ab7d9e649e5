// Package models holds the flat user and repository records written to CSV
// and the extractors that build them from raw GitHub API JSON.
//
// Extractors fail with an extraction error when a required field is
// missing; optional fields fall back to their zero value.
package models
