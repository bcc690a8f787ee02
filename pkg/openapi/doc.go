// Package openapi seeds form schemas from OpenAPI 3 documents. The request
// body of a chosen operation is mapped to controls using kin-openapi, so a
// form can start from an existing API contract instead of an empty canvas.
package openapi
