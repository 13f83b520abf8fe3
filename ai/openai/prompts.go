package openai

const enrichmentResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "summary": {
      "type": "string"
    },
    "tags": {
      "type": "array",
      "items": {
        "type": "string",
        "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"
      },
      "maxItems": 6
    }
  },
  "required": ["summary", "tags"],
  "additionalProperties": false
}`

const enrichmentPrompt = `You are a professional technical writer. Summarise the content you are given into
a concise paragraph (max 200 words) focused on the key takeaways and technical value, and
choose up to 6 short topic tags.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

` + enrichmentResponseSchema + `

Rules:
- Tags must be lowercase, hyphenated, 1-3 words each, most relevant first.
- Describe only what the content states or clearly implies. Do not hallucinate.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
{"summary": "Walks through building a rate limiter in Go using token buckets and benchmarks three designs.", "tags": ["go", "rate-limiting", "performance"]}
`

// buildSystemPrompt returns the system prompt for enrichment calls.
func buildSystemPrompt() string {
	return enrichmentPrompt
}
