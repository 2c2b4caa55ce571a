package provider

import (
	"errors"
	"testing"
)

func TestGenerateSchema_StrictCompliance(t *testing.T) {
	t.Parallel()

	type inner struct {
		Label string `json:"label"`
	}
	type outer struct {
		Name  string   `json:"name"`
		Tags  []string `json:"tags"`
		Child inner    `json:"child"`
	}

	schema := GenerateSchema[outer]()

	if schema["type"] != "object" {
		t.Fatalf("type=%v", schema["type"])
	}
	if schema["additionalProperties"] != false {
		t.Fatalf("additionalProperties=%v", schema["additionalProperties"])
	}
	required, ok := schema["required"].([]string)
	if !ok || len(required) != 3 {
		t.Fatalf("required=%v", schema["required"])
	}

	props := schema["properties"].(map[string]interface{})
	child := props["child"].(map[string]interface{})
	if child["additionalProperties"] != false {
		t.Fatalf("nested object not strict: %v", child)
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	retryable := []string{
		"429 Too Many Requests",
		"rate limit exceeded",
		"500 Internal Server Error",
		"upstream returned 503",
		"server_error",
	}
	for _, msg := range retryable {
		if !isRetryable(errors.New(msg)) {
			t.Fatalf("%q should be retryable", msg)
		}
	}

	permanent := []string{
		"401 Unauthorized",
		"invalid_request_error: model not found",
		"context deadline exceeded",
	}
	for _, msg := range permanent {
		if isRetryable(errors.New(msg)) {
			t.Fatalf("%q should not be retryable", msg)
		}
	}
	if isRetryable(nil) {
		t.Fatalf("nil error is not retryable")
	}
}
