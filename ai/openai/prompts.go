package openai

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/sitesearch/ai"
)

const rankingResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "ids": {
      "type": "array",
      "description": "Candidate IDs (URLs), most relevant first",
      "items": {"type": "string"},
      "maxItems": %d
    }
  },
  "required": ["ids"],
  "additionalProperties": false
}`

const rankingSystemPrompt = `You rank pages of a neurosurgery practice website for a site search box.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
or markdown. Start your response directly with the opening brace { and end with the closing brace }.

%s

Rules:
- Consider semantic meaning, not just keyword matching. If the user searches for "headache", include
  content about "migraine" or "brain tumor symptoms".
- Use only IDs that appear in the candidate list. Never invent IDs.
- Order IDs from most to least relevant and list each ID at most once.
- Return at most %d IDs. If nothing is relevant, return {"ids": []}.`

const rankingUserTemplate = `User Query: %s

Available Content (%d Candidates):
%s

Return ONLY a JSON object with an "ids" array containing the IDs (URLs) of the %d most relevant items.`

// buildSystemPrompt embeds the response schema sized for limit.
func buildSystemPrompt(limit int) string {
	return fmt.Sprintf(rankingSystemPrompt, fmt.Sprintf(rankingResponseSchema, limit), limit)
}

// buildUserPrompt renders the query and candidate list. The query is JSON
// quoted so that it cannot break out of its line.
func buildUserPrompt(query string, candidates []ai.Candidate, limit int) (string, error) {
	quoted, err := json.Marshal(query)
	if err != nil {
		return "", err
	}
	list, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(rankingUserTemplate, quoted, len(candidates), list, limit), nil
}
