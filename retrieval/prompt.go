package retrieval

import (
	"fmt"
	"strings"
)

// buildPrompt renders the grounding prompt for the generation provider. The
// instruction pins the model to the retrieved context and gives it an
// explicit escape hatch for questions the context cannot answer.
func buildPrompt(question string, hits []Hit) string {
	var context strings.Builder
	for _, h := range hits {
		fmt.Fprintf(&context, `
Job ID: %d
Title: %s
Company: %s
Location: %s
Experience: %s
Skills: %s
Description: %s
Score: %.3f
---
`, h.JobID, h.Title, h.Company, h.Location, h.Experience, h.Skills, h.Description, h.Score)
	}

	return fmt.Sprintf(`
You are a helpful Job Recommendation AI assistant.
Use ONLY the below job context to answer the user question.
If user asks something not possible from context, say "Not enough data in jobs context".

USER QUESTION:
%s

JOBS CONTEXT:
%s

Give a helpful answer and mention best matching job titles.
`, question, context.String())
}
