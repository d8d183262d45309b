// Package httputil provides shared HTTP response/request utilities for handlers.
//
// Every handler file should use these helpers instead of writing raw
// http.ResponseWriter calls. This keeps JSON formatting and the error
// envelope consistent across all endpoints: clients classify failures by
// reading the "message" field, so every error body must carry one.
package httputil
