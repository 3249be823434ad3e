package planner

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/nvqpham/tally/internal/common"
)

// rawPlan mirrors the JSON contract the prompt demands from the model.
type rawPlan struct {
	Plan    string      `json:"plan"`
	Actions []rawAction `json:"actions"`
}

type rawAction struct {
	Params map[string]any `json:"params"`
	Type   string         `json:"type"`
}

// jsonBlockRe grabs the outermost brace-delimited block, newlines
// included, for models that wrap their JSON in prose.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractPlan parses the model's output into a plan. Markdown code
// fences are stripped first; if the remainder is not a JSON document,
// a single brace-delimited block is extracted and parsed instead.
func extractPlan(text string) (rawPlan, error) {
	doc := stripMarkdownFences(text)

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(doc), &probe); err != nil {
		doc = jsonBlockRe.FindString(doc)
		if doc == "" {
			return rawPlan{}, fmt.Errorf("%w: no JSON object found in output", common.ErrUnparseable)
		}
		if err := json.Unmarshal([]byte(doc), &probe); err != nil {
			return rawPlan{}, fmt.Errorf("%w: %v", common.ErrUnparseable, err)
		}
	}

	// A present but non-array "actions" means the model broke the
	// contract in a way worth naming precisely.
	if actionsRaw, ok := probe["actions"]; ok {
		trimmed := strings.TrimSpace(string(actionsRaw))
		if trimmed != "null" && !strings.HasPrefix(trimmed, "[") {
			return rawPlan{}, fmt.Errorf("%w: \"actions\" is not a list", common.ErrUnparseable)
		}
	}

	var parsed rawPlan
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		return rawPlan{}, fmt.Errorf("%w: %v", common.ErrUnparseable, err)
	}
	return parsed, nil
}

// stripMarkdownFences removes a surrounding ```json ... ``` wrapper.
func stripMarkdownFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
