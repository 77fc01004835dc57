package tools

import (
	"fmt"
	"strings"

	"github.com/ashita-ai/studio/internal/model"
)

const capabilities = `You can:
1. Query and filter data from any source
2. Get statistics (sum, average, min, max) for numeric fields
3. Group data by categories and see aggregated results
4. Search across all data

When users ask questions about the data:
- Use the appropriate tools to fetch and analyze data
- Display results using visual components like graphs, tables, and KPI cards
- Provide insights and summaries based on the data

Be helpful, accurate, and proactive in suggesting relevant analyses.`

// SystemPrompt writes a system prompt describing the given sources.
func SystemPrompt(appName string, sources []model.DataSource) string {
	if len(sources) == 0 {
		return fmt.Sprintf("You are %s, an AI assistant. Help users with their questions.", appName)
	}

	lines := make([]string, 0, len(sources))
	for _, ds := range sources {
		fields := make([]string, 0, len(ds.Fields))
		for _, f := range ds.Fields {
			fields = append(fields, fmt.Sprintf("%s (%s)", f.Name, f.Type))
		}
		lines = append(lines, fmt.Sprintf("- %q: %d records with fields: %s", ds.Name, len(ds.Data), strings.Join(fields, ", ")))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, an AI assistant with access to the following data sources:\n\n", appName)
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
	b.WriteString(capabilities)
	return b.String()
}
