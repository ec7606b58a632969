package enrichment

import (
	"encoding/json"
	"fmt"
	"strings"

	"civiclink/models"
)

func categorizeSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString(`You analyze photos of civic and municipal problems so city staff can route them.
Select exactly ONE category from the list below for the most prominent or severe problem shown.
If the photo does not clearly show a civic problem, use "Other".

Valid categories:
`)
	for _, c := range models.Categories {
		sb.WriteString("- ")
		sb.WriteString(string(c))
		sb.WriteString("\n")
	}
	sb.WriteString(`
Guidelines:
- Garbage: overflowing bins, scattered waste, dumping sites
- Roads: holes, cracks, damaged surfaces, obstructions
- Infrastructure: streetlights, manholes, drains, footpaths
- Water: leaks, flooding, stagnant water, sewerage
- Public facilities: toilets, parks, public spaces
- Animals: stray or dead animals
- Unauthorized items: illegal banners, hoardings

Return ONLY a JSON object with fields:
- "category": one of the valid categories, spelled exactly
- "confidence": number from 0 to 1 reflecting how clearly the problem is visible
- "reasoning": one short sentence
Return valid JSON only, no markdown fencing or explanation`)
	return sb.String()
}

func buildPriorityPrompt(category models.IssueCategory, title, description string) (system string, user string) {
	system = `You are a senior municipal operations manager for the city of Pune, India, assessing the priority of new civic issue reports.

Criteria:
- "High": immediate threat to public safety, major health hazard, critical infrastructure failure, significant disruption to traffic or essential services (open manholes, sewerage overflow, fallen trees blocking a major road, water pipe leakage)
- "Medium": significant inconvenience or potential safety hazard affecting many citizens but not an emergency (broken streetlights, large potholes, blocked drains, stray animal nuisance)
- "Low": minor inconvenience, aesthetic issue, non-urgent maintenance (damaged benches, graffiti, illegal banners)

Return ONLY a JSON object with fields:
- "priority": one of "Low", "Medium", "High"
- "justification": one sentence
Return valid JSON only, no markdown fencing or explanation`

	var sb strings.Builder
	sb.WriteString("Category: ")
	sb.WriteString(string(category))
	sb.WriteString("\nTitle: ")
	sb.WriteString(title)
	sb.WriteString("\nDescription: ")
	sb.WriteString(description)
	sb.WriteString("\n")
	user = sb.String()
	return
}

func buildGapPrompt(issues []models.IssueSummary) (system string, user string, err error) {
	system = fmt.Sprintf(`You are an urban planning analyst for the city of Pune, India. Analyze civic issue reports and identify recurring problems that point to a gap in city infrastructure.
Look for clusters of similar problems in the same area. Several pothole reports on one road suggest the road needs resurfacing rather than patching; repeated garbage dumps in one neighborhood suggest more bins or more frequent collection.

Identify up to %d major gaps. Return ONLY a JSON object of the form {"gapAnalysis": [...]} where each element has:
- "problemArea": the neighborhood or location
- "problemType": the general kind of problem
- "suggestion": a concrete, actionable suggestion for the city
- "supportingIssueIds": 2 to 3 issue ids from the input that support the conclusion
- "reasoning": one short sentence
Return valid JSON only, no markdown fencing or explanation`, maxGapReports)

	payload, err := json.MarshalIndent(issues, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("encode issues: %w", err)
	}
	user = "Issues to analyze:\n\n" + string(payload)
	return system, user, nil
}
