// Package httpx holds the JSON envelope shared by the API server and the
// client SDK.
package httpx

import "encoding/json"

// Envelope is the fixed wrapper used by every API response: on success
// {success:true, data:...}, on failure {success:false, error:"..."}.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Response is the write-side counterpart of Envelope: Data can be any
// serializable payload.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK wraps a payload in the success envelope.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// Fail wraps an error message in the failure envelope.
func Fail(msg string) Response {
	return Response{Success: false, Error: msg}
}
