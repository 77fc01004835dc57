// Package api holds the studio HTTP API description, embedded so the server
// can serve it at GET /openapi.yaml.
package api

import _ "embed"

// OpenAPISpec is the OpenAPI 3.1 document for the /v1 API.
//
//go:embed openapi.yaml
var OpenAPISpec []byte
