// Package mockdata holds the canned datasets behind the template tool sets
// (tickets, incidents, inventory, customers, sales) and the operations that
// read and mutate them. Nothing here talks to a real system.
package mockdata

// Ticket is a support ticket.
type Ticket struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	Assignee    *string `json:"assignee"`
	Customer    string  `json:"customer"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	Category    string  `json:"category"`
}

// Incident is an engineering incident.
type Incident struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Severity    string  `json:"severity"`
	Status      string  `json:"status"`
	Service     string  `json:"service"`
	StartedAt   string  `json:"started_at"`
	ResolvedAt  *string `json:"resolved_at"`
	Assignee    string  `json:"assignee"`
	Description string  `json:"description"`
}

// Deployment is a service rollout.
type Deployment struct {
	ID          string `json:"id"`
	Service     string `json:"service"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Status      string `json:"status"`
	DeployedAt  string `json:"deployed_at"`
	DeployedBy  string `json:"deployed_by"`
}

// InventoryItem is a stocked product.
type InventoryItem struct {
	ID            string  `json:"id"`
	SKU           string  `json:"sku"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Quantity      float64 `json:"quantity"`
	ReorderLevel  float64 `json:"reorder_level"`
	UnitPrice     float64 `json:"unit_price"`
	Supplier      string  `json:"supplier"`
	Location      string  `json:"location"`
	LastRestocked string  `json:"last_restocked"`
}

// Customer is an account tracked by customer success.
type Customer struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Company        string  `json:"company"`
	HealthScore    float64 `json:"health_score"`
	MRR            float64 `json:"mrr"`
	Plan           string  `json:"plan"`
	Status         string  `json:"status"`
	LastContact    string  `json:"last_contact"`
	NPSScore       *int    `json:"nps_score"`
	AccountManager string  `json:"account_manager"`
}

// SalesRecord is one month of revenue for a region and category.
type SalesRecord struct {
	Month    string  `json:"month"`
	Region   string  `json:"region"`
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Units    int     `json:"units"`
}

// Product is a top seller.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Sales    int     `json:"sales"`
	Revenue  float64 `json:"revenue"`
	Growth   float64 `json:"growth"`
}

// UserMetric is one month of user activity for a segment.
type UserMetric struct {
	Month       string `json:"month"`
	Segment     string `json:"segment"`
	NewUsers    int    `json:"new_users"`
	ActiveUsers int    `json:"active_users"`
	Churned     int    `json:"churned"`
}

// KPI is a headline business indicator.
type KPI struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Change   string `json:"change"`
	Trend    string `json:"trend"`
	Category string `json:"category"`
}

func ptr[T any](v T) *T { return &v }

func seedTickets() []Ticket {
	return []Ticket{
		{ID: "TKT-1234", Title: "Cannot login to dashboard", Description: "User reports 403 error when accessing dashboard", Priority: "high", Status: "open", Assignee: ptr("Sarah Chen"), Customer: "Acme Corp", CreatedAt: "2024-01-15T10:30:00Z", UpdatedAt: "2024-01-15T14:20:00Z", Category: "Authentication"},
		{ID: "TKT-1235", Title: "Payment processing failed", Description: "Credit card transactions timing out", Priority: "critical", Status: "in_progress", Assignee: ptr("Mike Johnson"), Customer: "TechStart Inc", CreatedAt: "2024-01-15T09:15:00Z", UpdatedAt: "2024-01-15T15:45:00Z", Category: "Billing"},
		{ID: "TKT-1236", Title: "Feature request: Dark mode", Description: "Customer requesting dark mode option", Priority: "low", Status: "open", Assignee: nil, Customer: "Global Ltd", CreatedAt: "2024-01-14T16:00:00Z", UpdatedAt: "2024-01-14T16:00:00Z", Category: "Feature Request"},
		{ID: "TKT-1237", Title: "Data export not working", Description: "CSV export returns empty file", Priority: "medium", Status: "in_progress", Assignee: ptr("Emily Davis"), Customer: "DataFlow Inc", CreatedAt: "2024-01-15T11:00:00Z", UpdatedAt: "2024-01-15T13:30:00Z", Category: "Data"},
		{ID: "TKT-1238", Title: "API rate limiting issues", Description: "Getting 429 errors on API calls", Priority: "high", Status: "open", Assignee: ptr("Sarah Chen"), Customer: "DevTools Co", CreatedAt: "2024-01-15T08:45:00Z", UpdatedAt: "2024-01-15T12:00:00Z", Category: "API"},
		{ID: "TKT-1239", Title: "Mobile app crash on iOS", Description: "App crashes when opening settings", Priority: "critical", Status: "resolved", Assignee: ptr("Mike Johnson"), Customer: "MobileFirst", CreatedAt: "2024-01-14T14:30:00Z", UpdatedAt: "2024-01-15T10:00:00Z", Category: "Mobile"},
		{ID: "TKT-1240", Title: "Slow dashboard loading", Description: "Dashboard takes 10+ seconds to load", Priority: "medium", Status: "open", Assignee: nil, Customer: "SpeedTest LLC", CreatedAt: "2024-01-15T07:00:00Z", UpdatedAt: "2024-01-15T07:00:00Z", Category: "Performance"},
	}
}

func seedIncidents() []Incident {
	return []Incident{
		{ID: "INC-001", Title: "API Latency Spike", Severity: "P1", Status: "investigating", Service: "api-gateway", StartedAt: "2024-01-15T14:30:00Z", Assignee: "On-call Team", Description: "Response times increased to 2s+"},
		{ID: "INC-002", Title: "Database Connection Pool Exhausted", Severity: "P2", Status: "monitoring", Service: "postgres-primary", StartedAt: "2024-01-15T12:00:00Z", Assignee: "DB Team", Description: "Connection pool at 95% capacity"},
		{ID: "INC-003", Title: "Cache Miss Rate Elevated", Severity: "P3", Status: "resolved", Service: "redis-cluster", StartedAt: "2024-01-15T10:00:00Z", ResolvedAt: ptr("2024-01-15T11:30:00Z"), Assignee: "Platform Team", Description: "Cache hit rate dropped to 60%"},
		{ID: "INC-004", Title: "SSL Certificate Expiring", Severity: "P4", Status: "identified", Service: "cdn", StartedAt: "2024-01-15T09:00:00Z", Assignee: "Security Team", Description: "Certificate expires in 7 days"},
	}
}

func seedDeployments() []Deployment {
	return []Deployment{
		{ID: "DEP-101", Service: "api-gateway", Version: "v2.4.1", Environment: "production", Status: "success", DeployedAt: "2024-01-15T14:00:00Z", DeployedBy: "CI/CD Pipeline"},
		{ID: "DEP-100", Service: "web-frontend", Version: "v3.1.0", Environment: "production", Status: "success", DeployedAt: "2024-01-15T12:30:00Z", DeployedBy: "Sarah Chen"},
		{ID: "DEP-099", Service: "auth-service", Version: "v1.8.2", Environment: "staging", Status: "in_progress", DeployedAt: "2024-01-15T15:00:00Z", DeployedBy: "Mike Johnson"},
		{ID: "DEP-098", Service: "payment-service", Version: "v2.0.0", Environment: "production", Status: "rolled_back", DeployedAt: "2024-01-15T10:00:00Z", DeployedBy: "CI/CD Pipeline"},
	}
}

func seedInventory() []InventoryItem {
	return []InventoryItem{
		{ID: "INV-001", SKU: "WM-001", Name: "Wireless Mouse", Category: "Electronics", Quantity: 12, ReorderLevel: 25, UnitPrice: 29.99, Supplier: "TechSupply Co", Location: "Warehouse A", LastRestocked: "2024-01-10"},
		{ID: "INV-002", SKU: "KB-015", Name: "Mechanical Keyboard", Category: "Electronics", Quantity: 38, ReorderLevel: 20, UnitPrice: 89.99, Supplier: "TechSupply Co", Location: "Warehouse A", LastRestocked: "2024-01-12"},
		{ID: "INV-003", SKU: "UC-042", Name: "USB-C Cable 2m", Category: "Accessories", Quantity: 245, ReorderLevel: 100, UnitPrice: 12.99, Supplier: "CableMaster", Location: "Warehouse B", LastRestocked: "2024-01-14"},
		{ID: "INV-004", SKU: "HD-008", Name: `27" Monitor`, Category: "Electronics", Quantity: 8, ReorderLevel: 15, UnitPrice: 349.99, Supplier: "DisplayTech", Location: "Warehouse A", LastRestocked: "2024-01-08"},
		{ID: "INV-005", SKU: "CH-022", Name: "Office Chair", Category: "Furniture", Quantity: 45, ReorderLevel: 20, UnitPrice: 199.99, Supplier: "OfficePro", Location: "Warehouse C", LastRestocked: "2024-01-11"},
		{ID: "INV-006", SKU: "DS-003", Name: "Standing Desk", Category: "Furniture", Quantity: 15, ReorderLevel: 10, UnitPrice: 449.99, Supplier: "OfficePro", Location: "Warehouse C", LastRestocked: "2024-01-09"},
		{ID: "INV-007", SKU: "HP-011", Name: "Wireless Headphones", Category: "Electronics", Quantity: 5, ReorderLevel: 30, UnitPrice: 149.99, Supplier: "AudioMax", Location: "Warehouse A", LastRestocked: "2024-01-05"},
	}
}

func seedCustomers() []Customer {
	return []Customer{
		{ID: "CUS-001", Name: "John Smith", Email: "john@acmecorp.com", Company: "Acme Corp", HealthScore: 92, MRR: 12000, Plan: "enterprise", Status: "healthy", LastContact: "2024-01-14", NPSScore: ptr(9), AccountManager: "Lisa Wong"},
		{ID: "CUS-002", Name: "Sarah Johnson", Email: "sarah@techstart.io", Company: "TechStart Inc", HealthScore: 45, MRR: 8500, Plan: "professional", Status: "at_risk", LastContact: "2024-01-02", NPSScore: ptr(5), AccountManager: "Lisa Wong"},
		{ID: "CUS-003", Name: "Michael Brown", Email: "michael@globalltd.com", Company: "Global Ltd", HealthScore: 78, MRR: 15000, Plan: "enterprise", Status: "healthy", LastContact: "2024-01-12", NPSScore: ptr(8), AccountManager: "Tom Harris"},
		{ID: "CUS-004", Name: "Emily Davis", Email: "emily@dataflow.co", Company: "DataFlow Inc", HealthScore: 88, MRR: 5500, Plan: "professional", Status: "healthy", LastContact: "2024-01-15", NPSScore: ptr(9), AccountManager: "Tom Harris"},
		{ID: "CUS-005", Name: "David Wilson", Email: "david@speedtest.io", Company: "SpeedTest LLC", HealthScore: 32, MRR: 3200, Plan: "starter", Status: "at_risk", LastContact: "2023-12-20", NPSScore: ptr(3), AccountManager: "Lisa Wong"},
		{ID: "CUS-006", Name: "Jennifer Lee", Email: "jennifer@mobilefirst.app", Company: "MobileFirst", HealthScore: 95, MRR: 22000, Plan: "enterprise", Status: "healthy", LastContact: "2024-01-15", NPSScore: ptr(10), AccountManager: "Tom Harris"},
	}
}

func seedSales() []SalesRecord {
	return []SalesRecord{
		{Month: "January", Region: "North", Category: "Electronics", Revenue: 45000, Units: 320},
		{Month: "January", Region: "South", Category: "Clothing", Revenue: 28000, Units: 410},
		{Month: "February", Region: "East", Category: "Home", Revenue: 31000, Units: 150},
		{Month: "February", Region: "West", Category: "Electronics", Revenue: 52000, Units: 365},
		{Month: "March", Region: "North", Category: "Clothing", Revenue: 24000, Units: 380},
		{Month: "March", Region: "South", Category: "Electronics", Revenue: 38000, Units: 270},
		{Month: "April", Region: "East", Category: "Electronics", Revenue: 61000, Units: 430},
		{Month: "April", Region: "West", Category: "Home", Revenue: 27000, Units: 140},
		{Month: "May", Region: "North", Category: "Home", Revenue: 33000, Units: 165},
		{Month: "May", Region: "South", Category: "Clothing", Revenue: 29000, Units: 420},
		{Month: "June", Region: "East", Category: "Clothing", Revenue: 35000, Units: 455},
		{Month: "June", Region: "West", Category: "Electronics", Revenue: 55000, Units: 390},
	}
}

func seedProducts() []Product {
	return []Product{
		{ID: "PRD-001", Name: "Laptop Pro 15", Category: "Electronics", Sales: 342, Revenue: 444258, Growth: 12.5},
		{ID: "PRD-002", Name: "Noise-Cancelling Headphones", Category: "Electronics", Sales: 518, Revenue: 155382, Growth: 8.1},
		{ID: "PRD-003", Name: "Ergonomic Chair", Category: "Furniture", Sales: 204, Revenue: 61176, Growth: -2.4},
		{ID: "PRD-004", Name: "Standing Desk", Category: "Furniture", Sales: 156, Revenue: 70194, Growth: 15.3},
		{ID: "PRD-005", Name: "Espresso Machine", Category: "Appliances", Sales: 189, Revenue: 94311, Growth: 5.7},
		{ID: "PRD-006", Name: "Air Purifier", Category: "Appliances", Sales: 233, Revenue: 46367, Growth: 21.2},
	}
}

func seedUsers() []UserMetric {
	var out []UserMetric
	months := []string{"January", "February", "March", "April", "May", "June"}
	base := map[string][3]int{
		"Free":       {1200, 8400, 310},
		"Premium":    {340, 2100, 45},
		"Enterprise": {40, 620, 4},
	}
	for i, m := range months {
		for _, seg := range []string{"Free", "Premium", "Enterprise"} {
			b := base[seg]
			out = append(out, UserMetric{
				Month:       m,
				Segment:     seg,
				NewUsers:    b[0] + i*b[0]/10,
				ActiveUsers: b[1] + i*b[1]/20,
				Churned:     b[2] - i*b[2]/20,
			})
		}
	}
	return out
}

func seedKPIs() []KPI {
	return []KPI{
		{Name: "Monthly Recurring Revenue", Value: "$2.4M", Change: "+12.5%", Trend: "up", Category: "Financial"},
		{Name: "Gross Margin", Value: "68%", Change: "+1.2%", Trend: "up", Category: "Financial"},
		{Name: "New Customers", Value: "1,234", Change: "+5.1%", Trend: "up", Category: "Growth"},
		{Name: "Active Deals", Value: "156", Change: "+8.2%", Trend: "up", Category: "Growth"},
		{Name: "Defect Rate", Value: "0.8%", Change: "-0.3%", Trend: "down", Category: "Quality"},
		{Name: "Net Revenue Retention", Value: "112%", Change: "+2%", Trend: "up", Category: "Retention"},
		{Name: "Logo Churn", Value: "1.9%", Change: "0%", Trend: "neutral", Category: "Retention"},
		{Name: "Customer Acquisition Cost", Value: "$420", Change: "-6%", Trend: "down", Category: "Marketing"},
	}
}
