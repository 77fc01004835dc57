package mockdata

import (
	"context"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/ashita-ai/studio/internal/catalog"
	"github.com/ashita-ai/studio/internal/tools"
)

// orNull turns a not-found nil pointer into an untyped nil result.
func orNull[T any](v *T, err error) (any, error) {
	if err != nil || v == nil {
		return nil, err
	}
	return v, nil
}

func requireString(args map[string]any, key string) (string, error) {
	v, err := tools.Args(args).RequireString(key)
	if err != nil || v == "" {
		return "", fmt.Errorf("%w: %s is required", tools.ErrInvalidArguments, key)
	}
	return v, nil
}

// optional returns a pointer to a string argument when one was supplied.
func optional(args map[string]any, key string) *string {
	if v, ok := args[key].(string); ok {
		return &v
	}
	return nil
}

// SalesTools returns the sales analytics tool set.
func (s *Services) SalesTools() []tools.Tool {
	return []tools.Tool{
		{
			Definition: mcplib.NewTool("getSalesData",
				mcplib.WithDescription("Get monthly sales revenue and units data. Can filter by region (North, South, East, West) or category (Electronics, Clothing, Home)"),
				mcplib.WithReadOnlyHintAnnotation(true),
				mcplib.WithString("region", mcplib.Description("Sales region")),
				mcplib.WithString("category", mcplib.Description("Product category")),
			),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				r := tools.Args(args)
				return s.GetSalesData(ctx, r.GetString("region", ""), r.GetString("category", ""))
			},
		},
		{
			Definition: mcplib.NewTool("getProducts",
				mcplib.WithDescription("Get top products with sales and revenue information. Can filter by category (Electronics, Furniture, Appliances)"),
				mcplib.WithReadOnlyHintAnnotation(true),
				mcplib.WithString("category", mcplib.Description("Product category")),
			),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return s.GetProducts(ctx, tools.Args(args).GetString("category", ""))
			},
		},
		{
			Definition: mcplib.NewTool("getUserData",
				mcplib.WithDescription("Get monthly user growth and activity data. Can filter by segment (Free, Premium, Enterprise)"),
				mcplib.WithReadOnlyHintAnnotation(true),
				mcplib.WithString("segment", mcplib.Description("User segment")),
			),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return s.GetUserData(ctx, tools.Args(args).GetString("segment", ""))
			},
		},
		{
			Definition: mcplib.NewTool("getKPIs",
				mcplib.WithDescription("Get key business performance indicators. Can filter by category (Financial, Growth, Quality, Retention, Marketing)"),
				mcplib.WithReadOnlyHintAnnotation(true),
				mcplib.WithString("category", mcplib.Description("KPI category")),
			),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return s.GetKPIs(ctx, tools.Args(args).GetString("category", ""))
			},
		},
	}
}

var (
	ticketStatuses   = []string{"open", "in_progress", "resolved", "closed"}
	ticketPriorities = []string{"low", "medium", "high", "critical"}
)

// SupportTools returns the support operations tool set.
func (s *Services) SupportTools() []tools.Tool {
	return []tools.Tool{
		{
			Definition: mcplib.NewTool("getTickets",
				mcplib.WithDescription("Get support tickets. Can filter by status (open, in_progress, resolved, closed) or priority (low, medium, high, critical)"),
				mcplib.WithReadOnlyHintAnnotation(true),
				mcplib.WithString("status", mcplib.Description("Ticket status")),
				mcplib.WithString("priority", mcplib.Description("Ticket priority")),
				mcplib.WithString("assignee", mcplib.Description("Assignee name, partial match")),
			),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				r := tools.Args(args)
				return s.GetTickets(ctx, TicketFilter{
					Status:   r.GetString("status", ""),
					Priority: r.GetString("priority", ""),
					Assignee: r.GetString("assignee", ""),
				})
			},
		},
		{
			Definition: mcplib.NewTool("getTicketById",
				mcplib.WithDescription("Get a specific ticket by its ID"),
				mcplib.WithReadOnlyHintAnnotation(true),
				mcplib.WithString("id", mcplib.Description("Ticket ID, e.g. TKT-1234"), mcplib.Required()),
			),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requireString(args, "id")
				if err != nil {
					return nil, err
				}
				return orNull[Ticket](s.GetTicketByID(ctx, id))
			},
		},
		{
			Definition: mcplib.NewTool("createTicket",
				mcplib.WithDescription("Create a new support ticket"),
				mcplib.WithString("title", mcplib.Description("Short summary"), mcplib.Required()),
				mcplib.WithString("description", mcplib.Description("Details")),
				mcplib.WithString("priority", mcplib.Enum(ticketPriorities...)),
				mcplib.WithString("customer", mcplib.Description("Customer name")),
			),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				r := tools.Args(args)
				return s.CreateTicket(ctx, NewTicket{
					Title:       r.GetString("title", ""),
					Description: r.GetString("description", ""),
					Priority:    r.GetString("priority", ""),
					Assignee:    r.GetString("assignee", ""),
					Customer:    r.GetString("customer", ""),
					Category:    r.GetString("category", ""),
				})
			},
		},
		{
			Definition: mcplib.NewTool("updateTicket",
				mcplib.WithDescription("Update an existing ticket. Can update status, priority, or assignee"),
				mcplib.WithIdempotentHintAnnotation(true),
				mcplib.WithString("id", mcplib.Description("Ticket ID"), mcplib.Required()),
				mcplib.WithString("status", mcplib.Enum(ticketStatuses...)),
				mcplib.WithString("priority", mcplib.Enum(ticketPriorities...)),
				mcplib.WithString("assignee", mcplib.Description("New assignee")),
			),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requireString(args, "id")
				if err != nil {
					return nil, err
				}
				return orNull[Ticket](s.UpdateTicket(ctx, id, TicketUpdate{
					Status:   optional(args, "status"),
					Priority: optional(args, "priority"),
					Assignee: optional(args, "assignee"),
				}))
			},
		},
		{
			Definition: mcplib.NewTool("assignTicket",
				mcplib.WithDescription("Assign a ticket to someone and mark it in progress"),
				mcplib.WithString("id", mcplib.Description("Ticket ID"), mcplib.Required()),
				mcplib.WithString("assignee", mcplib.Description("Who takes the ticket"), mcplib.Required()),
			),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requireString(args, "id")
				if err != nil {
					return nil, err
				}
				assignee, err := requireString(args, "assignee")
				if err != nil {
					return nil, err
				}
				return orNull[Ticket](s.AssignTicket(ctx, id, assignee))
			},
		},
		{
			Definition: mcplib.NewTool("getTicketStats",
				mcplib.WithDescription("Get ticket statistics including counts by status and average response time"),
				mcplib.WithReadOnlyHintAnnotation(true),
			),
			Handler: func(ctx context.Context, _ map[string]any) (any, error) {
				return s.GetTicketStats(ctx)
			},
		},
	}
}

// EngineeringTools returns the engineering operations tool set.
func (s *Services) EngineeringTools() []tools.Tool {
	return []tools.Tool{
		{
			Definition: mcplib.NewTool("getIncidents",
				mcplib.WithDescription("Get active incidents. Can filter by status (investigating, identified, monitoring, resolved) or severity (P1, P2, P3, P4)"),
				mcplib.WithReadOnlyHintAnnotation(true),
				mcplib.WithString("status", mcplib.Description("Incident status")),
				mcplib.WithString("severity", mcplib.Description("Severity, P1 to P4")),
			),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				r := tools.Args(args)
				return s.GetIncidents(ctx, r.GetString("severity", ""), r.GetString("status", ""))
			},
		},
		{
			Definition: mcplib.NewTool("getDeployments",
				mcplib.WithDescription("Get recent deployments. Can filter by environment (production, staging, development) or status (success, failed, in_progress, rolled_back)"),
				mcplib.WithReadOnlyHintAnnotation(true),
				mcplib.WithString("environment", mcplib.Description("Target environment")),
				mcplib.WithString("status", mcplib.Description("Deployment status")),
			),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				r := tools.Args(args)
				return s.GetDeployments(ctx, r.GetString("environment", ""), r.GetString("status", ""))
			},
		},
		{
			Definition: mcplib.NewTool("getSystemHealth",
				mcplib.WithDescription("Get current system health status including service statuses, uptime, and active incidents"),
				mcplib.WithReadOnlyHintAnnotation(true),
			),
			Handler: func(ctx context.Context, _ map[string]any) (any, error) {
				return s.GetSystemHealth(ctx)
			},
		},
	}
}

// InventoryTools returns the inventory manager tool set.
func (s *Services) InventoryTools() []tools.Tool {
	return []tools.Tool{
		{
			Definition: mcplib.NewTool("getInventory",
				mcplib.WithDescription("Get inventory items. Can filter by category or show only low stock items"),
				mcplib.WithReadOnlyHintAnnotation(true),
				mcplib.WithString("category", mcplib.Description("Item category")),
				mcplib.WithBoolean("lowStock", mcplib.Description("Only items at or below their reorder level")),
			),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				r := tools.Args(args)
				return s.GetInventory(ctx, r.GetString("category", ""), r.GetBool("lowStock", false))
			},
		},
		{
			Definition: mcplib.NewTool("getInventoryById",
				mcplib.WithDescription("Get a specific inventory item by its ID"),
				mcplib.WithReadOnlyHintAnnotation(true),
				mcplib.WithString("id", mcplib.Description("Item ID or SKU"), mcplib.Required()),
			),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requireString(args, "id")
				if err != nil {
					return nil, err
				}
				return orNull[InventoryItem](s.GetInventoryByID(ctx, id))
			},
		},
		{
			Definition: mcplib.NewTool("updateStock",
				mcplib.WithDescription("Update the stock quantity for an inventory item"),
				mcplib.WithIdempotentHintAnnotation(true),
				mcplib.WithString("sku", mcplib.Description("Item SKU"), mcplib.Required()),
				mcplib.WithNumber("quantity", mcplib.Description("New quantity"), mcplib.Required(), mcplib.Min(0)),
			),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				sku, err := requireString(args, "sku")
				if err != nil {
					return nil, err
				}
				qty, err := tools.Args(args).RequireFloat("quantity")
				if err != nil {
					return nil, fmt.Errorf("%w: quantity must be a number", tools.ErrInvalidArguments)
				}
				return orNull[InventoryItem](s.UpdateStock(ctx, sku, qty))
			},
		},
		{
			Definition: mcplib.NewTool("getInventoryStats",
				mcplib.WithDescription("Get inventory statistics including total SKUs, low stock count, and total value"),
				mcplib.WithReadOnlyHintAnnotation(true),
			),
			Handler: func(ctx context.Context, _ map[string]any) (any, error) {
				return s.GetInventoryStats(ctx)
			},
		},
	}
}

// CustomerSuccessTools returns the customer success tool set.
func (s *Services) CustomerSuccessTools() []tools.Tool {
	return []tools.Tool{
		{
			Definition: mcplib.NewTool("getCustomers",
				mcplib.WithDescription("Get customers. Can filter by status (healthy, at_risk, churned) or plan (starter, professional, enterprise)"),
				mcplib.WithReadOnlyHintAnnotation(true),
				mcplib.WithString("status", mcplib.Description("Account status")),
				mcplib.WithString("plan", mcplib.Description("Subscription plan")),
			),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				r := tools.Args(args)
				return s.GetCustomers(ctx, r.GetString("status", ""), r.GetString("plan", ""))
			},
		},
		{
			Definition: mcplib.NewTool("getCustomerById",
				mcplib.WithDescription("Get a specific customer by their ID"),
				mcplib.WithReadOnlyHintAnnotation(true),
				mcplib.WithString("id", mcplib.Description("Customer ID, e.g. CUS-001"), mcplib.Required()),
			),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requireString(args, "id")
				if err != nil {
					return nil, err
				}
				return orNull[Customer](s.GetCustomerByID(ctx, id))
			},
		},
		{
			Definition: mcplib.NewTool("getCustomerStats",
				mcplib.WithDescription("Get customer success statistics including total MRR, average health score, and NPS"),
				mcplib.WithReadOnlyHintAnnotation(true),
			),
			Handler: func(ctx context.Context, _ map[string]any) (any, error) {
				return s.GetCustomerStats(ctx)
			},
		},
		{
			Definition: mcplib.NewTool("updateCustomerHealth",
				mcplib.WithDescription("Set a customer's health score. 70 and above is healthy, lower is at risk"),
				mcplib.WithString("id", mcplib.Description("Customer ID"), mcplib.Required()),
				mcplib.WithNumber("healthScore", mcplib.Description("Score from 0 to 100"), mcplib.Required(), mcplib.Min(0), mcplib.Max(100)),
			),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requireString(args, "id")
				if err != nil {
					return nil, err
				}
				score, err := tools.Args(args).RequireFloat("healthScore")
				if err != nil {
					return nil, fmt.Errorf("%w: healthScore must be a number", tools.ErrInvalidArguments)
				}
				return orNull[Customer](s.UpdateCustomerHealth(ctx, id, score))
			},
		},
	}
}

// AllTools returns every mock tool, sales first.
func (s *Services) AllTools() []tools.Tool {
	var out []tools.Tool
	out = append(out, s.SalesTools()...)
	out = append(out, s.SupportTools()...)
	out = append(out, s.EngineeringTools()...)
	out = append(out, s.InventoryTools()...)
	out = append(out, s.CustomerSuccessTools()...)
	return out
}

// ToolsForTemplate returns the tool set of a template, or every tool for an
// empty or unknown template id.
func (s *Services) ToolsForTemplate(templateID string) []tools.Tool {
	switch templateID {
	case catalog.TemplateSalesAnalytics:
		return s.SalesTools()
	case catalog.TemplateSupportOps:
		return s.SupportTools()
	case catalog.TemplateEngineeringOps:
		return s.EngineeringTools()
	case catalog.TemplateInventoryManager:
		return s.InventoryTools()
	case catalog.TemplateCustomerSuccess:
		return s.CustomerSuccessTools()
	}
	return s.AllTools()
}
