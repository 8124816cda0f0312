// Package api holds the OpenAPI description of the planner's HTTP surface.
package api

import _ "embed"

// OpenAPI is openapi.yaml as served at GET /openapi.yaml.
//
//go:embed openapi.yaml
var OpenAPI []byte
