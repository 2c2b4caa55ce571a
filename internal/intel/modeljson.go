package intel

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// decodeModelJSON unmarshals JSON from a model response, tolerating the
// usual failure modes: surrounding prose, code fences, trailing commas and
// other almost-JSON the repair pass can fix.
func decodeModelJSON(outputText string, v any) error {
	s := strings.TrimSpace(outputText)
	if s == "" {
		return io.ErrUnexpectedEOF
	}

	// Fast path: valid JSON as-is.
	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}

	// Extract the first top-level JSON object.
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return fmt.Errorf("no JSON object found in model output (len=%d)", len(s))
	}
	sub := s[start : end+1]
	if err := json.Unmarshal([]byte(sub), v); err == nil {
		return nil
	}

	// Last resort: repair almost-JSON.
	repaired, err := jsonrepair.JSONRepair(sub)
	if err != nil {
		return fmt.Errorf("repair model JSON (len=%d): %w", len(sub), err)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("unmarshal repaired model JSON: %w", err)
	}
	return nil
}
