package summarize

import "fmt"

// summaryPromptTemplate asks for the two reading tiers in one generation
// so they stay consistent with each other.
const summaryPromptTemplate = `Summarize the following encyclopedia article at two reading levels.

Article Title: %s

Article Content:
%s

Produce a JSON object with exactly two fields:

1. "advanced": a thorough summary for a knowledgeable reader (150-250 words). Preserve technical terms, dates, and proper names.
2. "basic": a simplified summary in plain language for a general reader (60-120 words). Avoid jargon; explain any term a newcomer would not know.

Both summaries must be self-contained, factual, and drawn only from the article content. Write only the JSON object, no commentary.`

// buildSummaryPrompt fills the two-tier summary prompt.
func buildSummaryPrompt(title, text string) string {
	return fmt.Sprintf(summaryPromptTemplate, title, text)
}
