// Package catalog holds the built-in templates, UI components and mock MCP
// server bundles, and the pure functions that derive configs from them.
//
// Catalog values are defined once at package init and never mutated. Every
// accessor returns a deep copy so callers can toggle freely.
package catalog

import "github.com/ashita-ai/studio/internal/model"

var components = []model.Component{
	{ID: "graph", Name: "Graph", Description: "Bar, line, and pie charts for data visualization", Enabled: true},
	{ID: "kpi-card", Name: "KPI Card", Description: "Key performance indicator display cards", Enabled: true},
	{ID: "data-table", Name: "Data Table", Description: "Sortable, filterable data tables", Enabled: true},
	{ID: "detail-panel", Name: "Detail Panel", Description: "Expandable detail views for records", Enabled: true},
	{ID: "action-buttons", Name: "Action Buttons", Description: "Contextual action button groups", Enabled: true},
	{ID: "form-builder", Name: "Form Builder", Description: "Dynamic form generation", Enabled: true},
	{ID: "select-form", Name: "Select Form", Description: "Multi-select and single-select forms", Enabled: true},
	{ID: "status-badge", Name: "Status Badge", Description: "Status indicators and badges", Enabled: true},
	{ID: "timeline", Name: "Timeline", Description: "Activity and event timelines", Enabled: true},
	{ID: "metric-trend", Name: "Metric Trend", Description: "Trend indicators with sparklines", Enabled: true},
}

// Component ids the live preview renders.
const (
	ComponentGraph     = "graph"
	ComponentKPICard   = "kpi-card"
	ComponentDataTable = "data-table"
)

// Server bundle ids.
const (
	ServerTicketing     = "ticketing"
	ServerAnalytics     = "analytics"
	ServerCRM           = "crm"
	ServerKnowledgeBase = "knowledge-base"
	ServerNotifications = "notifications"
	ServerInventory     = "inventory"
)

var servers = []model.MCPServer{
	{
		ID:          ServerTicketing,
		Name:        "Ticketing",
		Description: "Create, update, and manage support tickets",
		Tools:       []string{"createTicket", "updateTicket", "assignTicket", "closeTicket", "getTicketHistory"},
	},
	{
		ID:          ServerAnalytics,
		Name:        "Analytics",
		Description: "Query metrics, KPIs, and business data",
		Tools:       []string{"getSalesData", "getProducts", "getUserData", "getKPIs", "getMetrics"},
	},
	{
		ID:          ServerCRM,
		Name:        "CRM",
		Description: "Customer relationship management operations",
		Tools:       []string{"getCustomer", "updateCustomer", "getDeals", "createDeal", "getContacts"},
	},
	{
		ID:          ServerKnowledgeBase,
		Name:        "Knowledge Base",
		Description: "Search and retrieve documentation",
		Tools:       []string{"searchDocs", "getArticle", "suggestArticles", "createArticle"},
	},
	{
		ID:          ServerNotifications,
		Name:        "Notifications",
		Description: "Send alerts and notifications",
		Tools:       []string{"sendEmail", "sendSlack", "createAlert", "scheduleReminder"},
	},
	{
		ID:          ServerInventory,
		Name:        "Inventory",
		Description: "Track and manage inventory levels",
		Tools:       []string{"getStock", "updateStock", "createOrder", "getSuppliers"},
	},
}

// Template ids.
const (
	TemplateSalesAnalytics   = "sales-analytics"
	TemplateSupportOps       = "support-ops"
	TemplateEngineeringOps   = "engineering-ops"
	TemplateInventoryManager = "inventory-manager"
	TemplateCustomerSuccess  = "customer-success"
)

// enabledServers returns copies of the named bundles with Enabled set, in
// the order given.
func enabledServers(ids ...string) []model.MCPServer {
	out := make([]model.MCPServer, 0, len(ids))
	for _, id := range ids {
		s, ok := findServer(id)
		if !ok {
			panic("catalog: unknown server " + id)
		}
		s.Enabled = true
		out = append(out, s)
	}
	return out
}

func findServer(id string) (model.MCPServer, bool) {
	for _, s := range servers {
		if s.ID == id {
			return cloneServer(s), true
		}
	}
	return model.MCPServer{}, false
}

func component(id, description string) model.Component {
	for _, c := range components {
		if c.ID == id {
			c.Description = description
			return c
		}
	}
	panic("catalog: unknown component " + id)
}

// templates is ordered: Match falls back to templates[0] and breaks ties
// toward the earlier entry.
var templates = []model.Template{
	{
		ID:          TemplateSalesAnalytics,
		Name:        "Sales Analytics",
		Description: "AI-powered sales dashboard with revenue tracking, forecasting, and team performance",
		Icon:        "📊",
		Keywords:    []string{"sales", "revenue", "analytics", "dashboard", "forecast", "performance", "metrics", "kpi"},
		SystemPrompt: `You are an AI sales analytics assistant. Help users understand their sales data, identify trends, and make data-driven decisions.

Key capabilities:
- Visualize sales data with charts and graphs
- Track KPIs like revenue, conversion rates, and deal velocity
- Compare performance across regions, products, and time periods
- Provide actionable insights and recommendations

Always present data visually when possible. Use graphs for trends, KPI cards for key metrics, and tables for detailed breakdowns.`,
		Components: []model.Component{
			component("graph", "Sales charts and visualizations"),
			component("kpi-card", "Revenue and performance metrics"),
			component("data-table", "Sales data tables"),
			component("metric-trend", "Trend indicators"),
			component("select-form", "Filter options"),
		},
		MCPServers: enabledServers(ServerAnalytics, ServerCRM),
	},
	{
		ID:          TemplateSupportOps,
		Name:        "Support Operations",
		Description: "AI support ticket management with routing, prioritization, and resolution tracking",
		Icon:        "🎫",
		Keywords:    []string{"support", "ticket", "helpdesk", "customer", "service", "issue", "bug", "request"},
		SystemPrompt: `You are an AI support operations assistant. Help manage support tickets efficiently and improve customer satisfaction.

Key capabilities:
- View and manage support tickets
- Assign tickets to team members
- Track resolution times and SLAs
- Suggest knowledge base articles for common issues
- Analyze support trends and bottlenecks

Prioritize urgent tickets and help identify patterns in support requests.`,
		Components: []model.Component{
			component("data-table", "Ticket list view"),
			component("detail-panel", "Ticket details"),
			component("action-buttons", "Ticket actions"),
			component("status-badge", "Ticket status"),
			component("timeline", "Ticket history"),
			component("select-form", "Assignment options"),
		},
		MCPServers: enabledServers(ServerTicketing, ServerKnowledgeBase, ServerNotifications),
	},
	{
		ID:          TemplateEngineeringOps,
		Name:        "Engineering Ops",
		Description: "AI engineering dashboard for incident management, deployments, and system health",
		Icon:        "⚙️",
		Keywords:    []string{"engineering", "devops", "incident", "deploy", "system", "infrastructure", "monitoring", "ops"},
		SystemPrompt: `You are an AI engineering operations assistant. Help teams manage incidents, track deployments, and maintain system health.

Key capabilities:
- Monitor system health and alerts
- Track and manage incidents
- View deployment history and status
- Analyze error patterns and trends
- Coordinate incident response

Focus on reducing MTTR and improving system reliability.`,
		Components: []model.Component{
			component("graph", "System metrics charts"),
			component("kpi-card", "Health indicators"),
			component("data-table", "Incident list"),
			component("status-badge", "System status"),
			component("timeline", "Deployment history"),
			component("action-buttons", "Quick actions"),
		},
		// Ticketing doubles as the incident tracker here.
		MCPServers: enabledServers(ServerTicketing, ServerAnalytics, ServerNotifications),
	},
	{
		ID:          TemplateInventoryManager,
		Name:        "Inventory Manager",
		Description: "AI inventory tracking with stock levels, reorder alerts, and supplier management",
		Icon:        "📦",
		Keywords:    []string{"inventory", "stock", "warehouse", "supply", "order", "product", "sku"},
		SystemPrompt: `You are an AI inventory management assistant. Help track stock levels, manage orders, and optimize inventory.

Key capabilities:
- Monitor stock levels across locations
- Generate reorder alerts
- Track supplier performance
- Analyze inventory turnover
- Forecast demand

Help prevent stockouts while minimizing excess inventory.`,
		Components: []model.Component{
			component("data-table", "Inventory list"),
			component("kpi-card", "Stock metrics"),
			component("graph", "Inventory trends"),
			component("status-badge", "Stock status"),
			component("form-builder", "Order forms"),
			component("action-buttons", "Quick actions"),
		},
		MCPServers: enabledServers(ServerInventory, ServerAnalytics, ServerNotifications),
	},
	{
		ID:          TemplateCustomerSuccess,
		Name:        "Customer Success",
		Description: "AI customer health monitoring with engagement tracking and churn prediction",
		Icon:        "💚",
		Keywords:    []string{"customer", "success", "health", "churn", "engagement", "retention", "nps", "satisfaction"},
		SystemPrompt: `You are an AI customer success assistant. Help monitor customer health and drive retention.

Key capabilities:
- Track customer health scores
- Monitor engagement metrics
- Identify at-risk accounts
- Manage customer touchpoints
- Analyze NPS and satisfaction trends

Proactively identify opportunities to improve customer outcomes.`,
		Components: []model.Component{
			component("data-table", "Customer list"),
			component("kpi-card", "Health metrics"),
			component("graph", "Engagement trends"),
			component("detail-panel", "Customer details"),
			component("timeline", "Interaction history"),
			component("metric-trend", "Health trends"),
		},
		MCPServers: enabledServers(ServerCRM, ServerAnalytics, ServerNotifications),
	},
}

// Templates returns copies of all templates in catalog order.
func Templates() []model.Template {
	out := make([]model.Template, len(templates))
	for i, t := range templates {
		out[i] = Clone(t)
	}
	return out
}

// Get returns a copy of the template with the given id.
func Get(id string) (model.Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return Clone(t), true
		}
	}
	return model.Template{}, false
}

// Components returns copies of every studio component, all enabled.
func Components() []model.Component {
	return append([]model.Component(nil), components...)
}

// Servers returns copies of every MCP server bundle, all disabled.
func Servers() []model.MCPServer {
	out := make([]model.MCPServer, len(servers))
	for i, s := range servers {
		out[i] = cloneServer(s)
	}
	return out
}

// Clone deep-copies a template so toggles on the copy never reach the catalog.
func Clone(t model.Template) model.Template {
	c := t
	c.Components = append([]model.Component(nil), t.Components...)
	c.Keywords = append([]string(nil), t.Keywords...)
	c.MCPServers = make([]model.MCPServer, len(t.MCPServers))
	for i, s := range t.MCPServers {
		c.MCPServers[i] = cloneServer(s)
	}
	return c
}

func cloneServer(s model.MCPServer) model.MCPServer {
	s.Tools = append([]string(nil), s.Tools...)
	return s
}
