package insight

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// unmarshalLenient unmarshals LLM-produced JSON into v, repairing malformed
// output before giving up. Model responses often wrap JSON in markdown
// fences or leave trailing commas; strip the fences, then route syntax
// errors through jsonrepair and retry once.
func unmarshalLenient(data string, v any) error {
	data = stripFences(data)

	err := json.Unmarshal([]byte(data), v)
	if err == nil {
		return nil
	}
	if _, ok := err.(*json.SyntaxError); ok {
		fixed, repairErr := jsonrepair.JSONRepair(data)
		if repairErr != nil {
			return err
		}
		return json.Unmarshal([]byte(fixed), v)
	}
	return err
}

// stripFences removes a markdown code fence around the payload, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
