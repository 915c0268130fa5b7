package extract

import (
	"fmt"
	"strings"

	"github.com/MananiDennis/alumniSystem/internal/model"
)

// maxPayloadChars bounds the snippet payload sent to the model so a noisy
// search run cannot blow the token budget.
const maxPayloadChars = 15000

const systemPrompt = `You extract structured career information about a named person from web search results. Respond with a single JSON object and nothing else. Do not invent facts: every field must be supported by the provided text, and fields you cannot support must be null or omitted.`

const promptTemplate = `Extract career information for "%s" from the search results below.

Return a JSON object with exactly these fields:
{
  "full_name": "the person's full name as found, or null if the results are not about this person",
  "graduation_year": year as a number or null,
  "location": "city/region string or null",
  "industry": "industry name or null",
  "linkedin_url": "profile URL or null",
  "confidence_score": number between 0.0 and 1.0 reflecting how certain you are the results describe this specific person,
  "work_history": [
    {"title": "...", "company": "...", "start_year": number or null, "end_year": number or null, "is_current": true/false, "industry": "... or null", "location": "... or null"}
  ],
  "education_history": [
    {"institution": "...", "degree": "... or null", "field_of_study": "... or null", "graduation_year": number or null, "start_year": number or null}
  ],
  "data_source_url": "the most authoritative source URL or null"
}

If the results clearly describe a different person, return {"full_name": null, "confidence_score": 0.0}.

Search results:
%s`

// BuildPrompt renders the extraction prompt for a name over a set of
// snippets, truncating the payload at maxPayloadChars.
func BuildPrompt(name string, snippets []model.CandidateSnippet) string {
	var b strings.Builder
	for i, s := range snippets {
		fmt.Fprintf(&b, "[%d] %s\nURL: %s\n%s\n\n", i+1, s.Title, s.URL, s.Excerpt)
		if b.Len() > maxPayloadChars {
			break
		}
	}
	payload := b.String()
	if len(payload) > maxPayloadChars {
		payload = payload[:maxPayloadChars]
	}
	return fmt.Sprintf(promptTemplate, name, payload)
}
