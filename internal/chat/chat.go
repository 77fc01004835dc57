// Package chat produces the launched app's canned assistant replies. There is
// no model behind it: a few keyword intents map to proposed tool calls, and
// everything else gets a prompt to refine the template.
package chat

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/ashita-ai/studio/internal/catalog"
	"github.com/ashita-ai/studio/internal/datasource"
	"github.com/ashita-ai/studio/internal/model"
	"github.com/ashita-ai/studio/internal/tools"
)

var (
	assignIntent = regexp.MustCompile(`assign|owner|route`)
	chartIntent  = regexp.MustCompile(`chart|trend|compare|period`)
	docsIntent   = regexp.MustCompile(`doc|runbook|how do i|steps`)
	statsIntent  = regexp.MustCompile(`stats|statistic|average|total|summary`)
)

// Reply answers message for app. Proposed actions are returned as tool calls
// without a result; the stats intent runs the first data source's stats tool
// through set and returns its result.
func Reply(ctx context.Context, app model.LaunchedApp, set *tools.Set, message string) (model.ChatResponse, error) {
	enabled := EnabledTools(app)
	prefix := "System prompt (editable):\n" + app.SystemPrompt + "\n\n"
	toolLine := "Enabled tools: none."
	if len(enabled) > 0 {
		toolLine = "Enabled tools: " + strings.Join(enabled, ", ") + "."
	}
	intent := strings.ToLower(message)
	has := func(name string) bool { return slices.Contains(enabled, name) }

	switch {
	case assignIntent.MatchString(intent) && has("assignTicket"):
		return model.ChatResponse{
			Reply: prefix + "I can assign this ticket. " + toolLine + "\n\n" +
				"Proposed action: `assignTicket(ticketId=\"TCK-1042\", assignee=\"oncall\")`\n" +
				"Notes: Mark as P1 if customer impact is confirmed.",
			ToolCalls: []model.ToolCall{{
				Name:      "assignTicket",
				Arguments: map[string]any{"ticketId": "TCK-1042", "assignee": "oncall"},
			}},
		}, nil

	case chartIntent.MatchString(intent) && has("getMetrics"):
		return model.ChatResponse{
			Reply: prefix + "I can compare periods and generate a chart. " + toolLine + "\n\n" +
				"Proposed action: `getMetrics(metric=\"activation\", rangeA=\"last_7_days\", rangeB=\"previous_7_days\")`\n" +
				"Then render `Insights Chart` in the preview.",
			ToolCalls: []model.ToolCall{{
				Name:      "getMetrics",
				Arguments: map[string]any{"metric": "activation", "rangeA": "last_7_days", "rangeB": "previous_7_days"},
			}},
		}, nil

	case docsIntent.MatchString(intent) && has("searchDocs"):
		return model.ChatResponse{
			Reply: prefix + "I can search docs/runbooks. " + toolLine + "\n\n" +
				"Proposed action: `searchDocs(query=\"" + strings.ReplaceAll(message, `"`, `\"`) + "\")`\n" +
				"Then summarize the top result and extract a checklist.",
			ToolCalls: []model.ToolCall{{
				Name:      "searchDocs",
				Arguments: map[string]any{"query": message},
			}},
		}, nil

	case statsIntent.MatchString(intent) && len(app.DataSources) > 0 && set != nil:
		return statsReply(ctx, app.DataSources[0], set, prefix, toolLine)
	}

	return model.ChatResponse{
		Reply: prefix + toolLine + "\n\n" +
			"I can help refine this into the current template. Tell me what the primary user goal is and what data sources you want to simulate.",
	}, nil
}

// EnabledTools returns the sorted tool names of the app's enabled servers.
func EnabledTools(app model.LaunchedApp) []string {
	servers := catalog.Servers()
	for i := range servers {
		servers[i].Enabled = slices.Contains(app.EnabledServers, servers[i].ID)
	}
	return catalog.EnabledToolNames(servers)
}

func statsReply(ctx context.Context, ds model.DataSource, set *tools.Set, prefix, toolLine string) (model.ChatResponse, error) {
	name := tools.GetStatsTool(ds).Name()
	out, err := set.Invoke(ctx, name, nil)
	if err != nil {
		return model.ChatResponse{}, fmt.Errorf("chat: %s: %w", name, err)
	}
	stats, _ := out.(map[string]any)

	var b strings.Builder
	b.WriteString(prefix)
	fmt.Fprintf(&b, "Here are the statistics for %q. %s\n\n", ds.Name, toolLine)
	fmt.Fprintf(&b, "Records: %s", datasource.Stringify(stats["totalCount"]))
	for _, field := range ds.FieldsOfType(model.FieldNumber) {
		if _, ok := stats[field+"_sum"]; !ok {
			continue
		}
		fmt.Fprintf(&b, "\n- %s: sum %s, avg %s, min %s, max %s", field,
			datasource.Stringify(stats[field+"_sum"]),
			datasource.Stringify(stats[field+"_avg"]),
			datasource.Stringify(stats[field+"_min"]),
			datasource.Stringify(stats[field+"_max"]))
	}

	return model.ChatResponse{
		Reply:     b.String(),
		ToolCalls: []model.ToolCall{{Name: name, Result: out}},
	}, nil
}
