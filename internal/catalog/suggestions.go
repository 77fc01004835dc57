package catalog

import "github.com/ashita-ai/studio/internal/model"

var suggestions = map[string][]model.Suggestion{
	TemplateSalesAnalytics: {
		{ID: "revenue", Title: "Show revenue", Message: "Show me the monthly revenue data"},
		{ID: "products", Title: "Top products", Message: "What are our top selling products?"},
		{ID: "kpis", Title: "KPIs", Message: "Show me the key business KPIs"},
	},
	TemplateSupportOps: {
		{ID: "tickets", Title: "Open tickets", Message: "Show me all open support tickets"},
		{ID: "priority", Title: "High priority", Message: "What are the high priority tickets?"},
		{ID: "stats", Title: "Ticket stats", Message: "Show me ticket statistics"},
	},
	TemplateEngineeringOps: {
		{ID: "incidents", Title: "Active incidents", Message: "Show me active incidents"},
		{ID: "health", Title: "System health", Message: "What's the current system health?"},
		{ID: "deployments", Title: "Deployments", Message: "Show recent deployments"},
	},
	TemplateInventoryManager: {
		{ID: "lowstock", Title: "Low stock", Message: "Show items with low stock"},
		{ID: "stats", Title: "Inventory stats", Message: "Show inventory statistics"},
		{ID: "all", Title: "All inventory", Message: "Show all inventory items"},
	},
	TemplateCustomerSuccess: {
		{ID: "atrisk", Title: "At-risk customers", Message: "Show customers at risk of churning"},
		{ID: "stats", Title: "Customer stats", Message: "Show customer success metrics"},
		{ID: "all", Title: "All customers", Message: "Show all customers"},
	},
}

var defaultSuggestions = []model.Suggestion{
	{ID: "start", Title: "Get started", Message: "What can you help me with?"},
	{ID: "data", Title: "Show data", Message: "Show me the available data"},
	{ID: "help", Title: "Help", Message: "What are your capabilities?"},
}

// Suggestions returns the chat suggestions for a template id, or a generic
// set for unknown ids and data-only apps.
func Suggestions(templateID string) []model.Suggestion {
	if s, ok := suggestions[templateID]; ok {
		return append([]model.Suggestion(nil), s...)
	}
	return append([]model.Suggestion(nil), defaultSuggestions...)
}
