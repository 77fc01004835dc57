package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/studio/internal/model"
)

func TestMatchSupportTicketsExample(t *testing.T) {
	got := Match("Build me an AI that helps manage support tickets")
	require.Equal(t, TemplateSupportOps, got.ID)

	want, ok := Get(TemplateSupportOps)
	require.True(t, ok)
	assert.Equal(t, want.Components, got.Components, "components must be enabled exactly as declared")
	assert.Equal(t, want.MCPServers, got.MCPServers)
	assert.Equal(t, []string{ServerTicketing, ServerKnowledgeBase, ServerNotifications}, model.EnabledServerIDs(got.MCPServers))
}

func TestMatchUniqueKeyword(t *testing.T) {
	cases := map[string]string{
		"show our kpi board":           TemplateSalesAnalytics,
		"a helpdesk for the team":      TemplateSupportOps,
		"page me on every incident":    TemplateEngineeringOps,
		"which warehouse is full":      TemplateInventoryManager,
		"predict churn for accounts":   TemplateCustomerSuccess,
		"track nps across the quarter": TemplateCustomerSuccess,
	}
	for input, want := range cases {
		assert.Equal(t, want, Match(input).ID, "input %q", input)
	}
}

func TestMatchAlwaysReturnsCatalogMember(t *testing.T) {
	ids := make(map[string]bool)
	for _, tpl := range Templates() {
		ids[tpl.ID] = true
	}
	for _, input := range []string{"", "   ", "zzz", "日本語", "SALES", "customer support churn", strings.Repeat("x", 5000)} {
		got := Match(input)
		assert.True(t, ids[got.ID], "input %q returned %q", input, got.ID)
	}
}

func TestMatchNoHitsReturnsFirst(t *testing.T) {
	assert.Equal(t, TemplateSalesAnalytics, Match("nothing relevant here").ID)
}

func TestMatchTieGoesToEarlierTemplate(t *testing.T) {
	// "customer" is a keyword of both support-ops and customer-success.
	assert.Equal(t, TemplateSupportOps, Match("customer").ID)
}

func TestMatchSubstringAndCase(t *testing.T) {
	assert.Equal(t, TemplateSalesAnalytics, Match("Sync with SalesForce").ID)
	assert.Equal(t, TemplateInventoryManager, Match("STOCK levels").ID)
}

func TestMatchHighestScoreWins(t *testing.T) {
	// One support keyword vs three customer-success keywords.
	assert.Equal(t, TemplateCustomerSuccess, Match("support team: churn, retention and engagement").ID)
}

func TestCloneIsolatesCatalog(t *testing.T) {
	tpl := Match("support")
	tpl.Components[0].Enabled = false
	tpl.MCPServers[0].Enabled = false
	tpl.MCPServers[0].Tools[0] = "mutated"

	fresh, ok := Get(TemplateSupportOps)
	require.True(t, ok)
	assert.True(t, fresh.Components[0].Enabled)
	assert.True(t, fresh.MCPServers[0].Enabled)
	assert.Equal(t, "createTicket", fresh.MCPServers[0].Tools[0])
	assert.Equal(t, "createTicket", Servers()[0].Tools[0])
}

func TestUniqueIDsWithinTemplates(t *testing.T) {
	for _, tpl := range Templates() {
		seen := map[string]bool{}
		for _, c := range tpl.Components {
			assert.False(t, seen[c.ID], "%s: duplicate component %s", tpl.ID, c.ID)
			seen[c.ID] = true
		}
		seen = map[string]bool{}
		for _, s := range tpl.MCPServers {
			assert.False(t, seen[s.ID], "%s: duplicate server %s", tpl.ID, s.ID)
			seen[s.ID] = true
			assert.True(t, s.Enabled)
		}
	}
}

func TestCatalogLists(t *testing.T) {
	assert.Len(t, Components(), 10)
	assert.Len(t, Servers(), 6)
	assert.Len(t, Templates(), 5)
	for _, s := range Servers() {
		assert.False(t, s.Enabled)
	}
	_, ok := Get("nope")
	assert.False(t, ok)
}

func TestGenerateConfig(t *testing.T) {
	tpl, _ := Get(TemplateSupportOps)
	cfg := GenerateConfig(tpl)

	assert.Equal(t, TemplateSupportOps, cfg.Template)
	assert.Equal(t, "Support Operations", cfg.Name)
	assert.Equal(t, []string{"Data Table", "Detail Panel", "Action Buttons", "Status Badge", "Timeline", "Select Form"}, cfg.Components)
	require.Len(t, cfg.MCPServers, 3)
	assert.Equal(t, "Ticketing", cfg.MCPServers[0].Name)
	assert.Equal(t, []string{"searchDocs", "getArticle", "suggestArticles", "createArticle"}, cfg.MCPServers[1].Tools)
	assert.True(t, strings.HasSuffix(cfg.SystemPrompt, "..."))
	assert.Len(t, []rune(cfg.SystemPrompt), 103)
	assert.True(t, strings.HasPrefix(tpl.SystemPrompt, strings.TrimSuffix(cfg.SystemPrompt, "...")))
}

func TestGenerateConfigSkipsDisabled(t *testing.T) {
	tpl, _ := Get(TemplateSalesAnalytics)
	tpl.Components[0].Enabled = false
	tpl.MCPServers[1].Enabled = false

	cfg := GenerateConfig(tpl)
	assert.NotContains(t, cfg.Components, "Graph")
	require.Len(t, cfg.MCPServers, 1)
	assert.Equal(t, "Analytics", cfg.MCPServers[0].Name)
}

func TestExportConfig(t *testing.T) {
	tpl, _ := Get(TemplateEngineeringOps)
	tpl.Components[1].Enabled = false
	cfg := ExportConfig("Ops Bot", tpl.ID, tpl.SystemPrompt, tpl.Components, tpl.MCPServers)

	assert.Equal(t, "Ops Bot", cfg.Name)
	assert.Equal(t, []string{"graph", "data-table", "status-badge", "timeline", "action-buttons"}, cfg.Components)
	assert.Equal(t, []string{ServerTicketing, ServerAnalytics, ServerNotifications}, cfg.MCPServers)
	assert.Equal(t, tpl.SystemPrompt, cfg.SystemPrompt)
}

func TestEnabledToolNames(t *testing.T) {
	tpl, _ := Get(TemplateSalesAnalytics)
	assert.Equal(t, []string{
		"createDeal", "getContacts", "getCustomer", "getDeals", "getKPIs",
		"getMetrics", "getProducts", "getSalesData", "getUserData", "updateCustomer",
	}, EnabledToolNames(tpl.MCPServers))

	dup := []model.MCPServer{
		{ID: "a", Enabled: true, Tools: []string{" b ", "a", "b"}},
		{ID: "c", Enabled: false, Tools: []string{"z"}},
		{ID: "d", Enabled: true, Tools: []string{"a", ""}},
	}
	assert.Equal(t, []string{"a", "b"}, EnabledToolNames(dup))
	assert.Empty(t, EnabledToolNames(nil))
}

func TestSummary(t *testing.T) {
	tpl, _ := Get(TemplateInventoryManager)
	got := Summary(tpl, tpl.Components, tpl.MCPServers)
	assert.Equal(t, "Picked the Inventory Manager template. Enabled components: Data Table, KPI Card, Graph, Status Badge, Form Builder, Action Buttons. Enabled MCP servers: Inventory, Analytics, Notifications.", got)

	assert.Contains(t, Summary(tpl, nil, nil), "Enabled components: none. Enabled MCP servers: none.")
}

func TestSuggestions(t *testing.T) {
	for _, tpl := range Templates() {
		s := Suggestions(tpl.ID)
		assert.Len(t, s, 3, tpl.ID)
	}
	assert.Equal(t, "Get started", Suggestions("")[0].Title)
	assert.Equal(t, "Show customers at risk of churning", Suggestions(TemplateCustomerSuccess)[0].Message)
}
