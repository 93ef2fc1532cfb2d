package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RequestError describes why a request body was rejected. Every
// RequestError maps to HTTP 400; the client has to correct the
// request, the server never retries.
type RequestError struct {
	Field  string // offending field, empty for body-level problems
	Reason string
}

func (e *RequestError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

// createRequest is the decoded form of a POST /kv body. Both fields
// are kept as raw JSON so that a missing member (nil) can be told
// apart from any present value, including "" and null.
type createRequest struct {
	Key   json.RawMessage `json:"key"`
	Value json.RawMessage `json:"value"`
}

// replaceRequest is the decoded form of a PUT /kv/{key} body. The key
// comes from the URL; a body carrying only "key" is invalid.
type replaceRequest struct {
	Value json.RawMessage `json:"value"`
}

// decodeBody unmarshals a request body into dst, rejecting empty
// bodies, malformed JSON and JSON that is not an object.
func decodeBody(body []byte, dst any) *RequestError {
	if len(bytes.TrimSpace(body)) == 0 {
		return &RequestError{Reason: "empty body"}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		switch err.(type) {
		case *json.UnmarshalTypeError:
			return &RequestError{Reason: "body must be a JSON object"}
		default:
			return &RequestError{Reason: "invalid JSON"}
		}
	}
	return nil
}

// decodeCreate validates a POST /kv body and returns the key and the
// raw value. The key must be a present, non-empty JSON string; the
// value must be present but may be any JSON value ("" and null
// included).
func decodeCreate(body []byte) (string, json.RawMessage, *RequestError) {
	var req createRequest
	if rerr := decodeBody(body, &req); rerr != nil {
		return "", nil, rerr
	}

	if req.Key == nil {
		return "", nil, &RequestError{Field: "key", Reason: "required"}
	}
	if req.Value == nil {
		return "", nil, &RequestError{Field: "value", Reason: "required"}
	}

	var key string
	if err := json.Unmarshal(req.Key, &key); err != nil {
		return "", nil, &RequestError{Field: "key", Reason: "must be a string"}
	}
	if key == "" {
		return "", nil, &RequestError{Field: "key", Reason: "must be a non-empty string"}
	}

	return key, req.Value, nil
}

// decodeReplace validates a PUT /kv/{key} body and returns the raw
// value.
func decodeReplace(body []byte) (json.RawMessage, *RequestError) {
	var req replaceRequest
	if rerr := decodeBody(body, &req); rerr != nil {
		return nil, rerr
	}

	if req.Value == nil {
		return nil, &RequestError{Field: "value", Reason: "required"}
	}

	return req.Value, nil
}
