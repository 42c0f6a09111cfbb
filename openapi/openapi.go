// Package openapi embeds the OpenAPI document for the ELD logbook API.
// The HTTP server serves it at /openapi.yaml.
package openapi

import _ "embed"

// Document is the raw openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var Document []byte
