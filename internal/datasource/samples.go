package datasource

import (
	"sort"

	"github.com/ashita-ai/studio/internal/model"
)

// Sample keys accepted by Sample.
const (
	SampleSales     = "sales"
	SampleCustomers = "customers"
	SampleTickets   = "tickets"
	SampleInventory = "inventory"
)

type sampleSet struct {
	name   string
	fields []model.DataField
	rows   func() []model.Row
}

func field(name string, typ model.FieldType, sample any) model.DataField {
	return model.DataField{Name: name, Type: typ, Sample: Normalize(sample)}
}

var samples = map[string]sampleSet{
	SampleSales: {
		name: "Sales Data",
		fields: []model.DataField{
			field("month", model.FieldString, "January"),
			field("revenue", model.FieldNumber, 45000),
			field("units", model.FieldNumber, 120),
			field("region", model.FieldString, "North"),
			field("product", model.FieldString, "Widget Pro"),
		},
		rows: func() []model.Row {
			return []model.Row{
				{"month": "January", "revenue": 45000.0, "units": 120.0, "region": "North", "product": "Widget Pro"},
				{"month": "February", "revenue": 52000.0, "units": 140.0, "region": "South", "product": "Widget Pro"},
				{"month": "March", "revenue": 38000.0, "units": 95.0, "region": "East", "product": "Gadget X"},
				{"month": "April", "revenue": 61000.0, "units": 165.0, "region": "West", "product": "Widget Pro"},
				{"month": "May", "revenue": 43000.0, "units": 110.0, "region": "North", "product": "Gadget X"},
				{"month": "June", "revenue": 55000.0, "units": 145.0, "region": "South", "product": "Widget Pro"},
			}
		},
	},
	SampleCustomers: {
		name: "Customer Data",
		fields: []model.DataField{
			field("id", model.FieldString, "CUST-001"),
			field("name", model.FieldString, "Acme Corp"),
			field("email", model.FieldString, "contact@acme.com"),
			field("plan", model.FieldString, "Enterprise"),
			field("mrr", model.FieldNumber, 5000),
			field("healthScore", model.FieldNumber, 85),
			field("status", model.FieldString, "Active"),
		},
		rows: func() []model.Row {
			return []model.Row{
				{"id": "CUST-001", "name": "Acme Corp", "email": "contact@acme.com", "plan": "Enterprise", "mrr": 5000.0, "healthScore": 85.0, "status": "Active"},
				{"id": "CUST-002", "name": "TechStart Inc", "email": "hello@techstart.io", "plan": "Professional", "mrr": 2500.0, "healthScore": 72.0, "status": "Active"},
				{"id": "CUST-003", "name": "Global Ltd", "email": "info@global.com", "plan": "Enterprise", "mrr": 8000.0, "healthScore": 45.0, "status": "At Risk"},
				{"id": "CUST-004", "name": "StartupXYZ", "email": "team@startupxyz.com", "plan": "Starter", "mrr": 500.0, "healthScore": 90.0, "status": "Active"},
				{"id": "CUST-005", "name": "MegaCorp", "email": "support@megacorp.com", "plan": "Enterprise", "mrr": 15000.0, "healthScore": 78.0, "status": "Active"},
			}
		},
	},
	SampleTickets: {
		name: "Support Tickets",
		fields: []model.DataField{
			field("id", model.FieldString, "TKT-001"),
			field("title", model.FieldString, "Login issue"),
			field("status", model.FieldString, "Open"),
			field("priority", model.FieldString, "High"),
			field("assignee", model.FieldString, "Sarah"),
			field("createdAt", model.FieldDate, "2024-01-15"),
		},
		rows: func() []model.Row {
			return []model.Row{
				{"id": "TKT-001", "title": "Login issue", "status": "Open", "priority": "High", "assignee": "Sarah", "createdAt": "2024-01-15"},
				{"id": "TKT-002", "title": "Payment failed", "status": "In Progress", "priority": "Critical", "assignee": "Mike", "createdAt": "2024-01-14"},
				{"id": "TKT-003", "title": "Feature request", "status": "Open", "priority": "Low", "assignee": nil, "createdAt": "2024-01-13"},
				{"id": "TKT-004", "title": "API timeout", "status": "Resolved", "priority": "Medium", "assignee": "Sarah", "createdAt": "2024-01-12"},
				{"id": "TKT-005", "title": "Dashboard bug", "status": "Open", "priority": "High", "assignee": "Alex", "createdAt": "2024-01-11"},
			}
		},
	},
	SampleInventory: {
		name: "Inventory Data",
		fields: []model.DataField{
			field("sku", model.FieldString, "SKU-001"),
			field("name", model.FieldString, "Wireless Mouse"),
			field("category", model.FieldString, "Electronics"),
			field("stock", model.FieldNumber, 150),
			field("price", model.FieldNumber, 29.99),
			field("reorderPoint", model.FieldNumber, 50),
		},
		rows: func() []model.Row {
			return []model.Row{
				{"sku": "SKU-001", "name": "Wireless Mouse", "category": "Electronics", "stock": 150.0, "price": 29.99, "reorderPoint": 50.0},
				{"sku": "SKU-002", "name": "USB-C Cable", "category": "Electronics", "stock": 12.0, "price": 14.99, "reorderPoint": 100.0},
				{"sku": "SKU-003", "name": "Laptop Stand", "category": "Accessories", "stock": 45.0, "price": 49.99, "reorderPoint": 20.0},
				{"sku": "SKU-004", "name": "Webcam HD", "category": "Electronics", "stock": 8.0, "price": 79.99, "reorderPoint": 25.0},
				{"sku": "SKU-005", "name": "Keyboard", "category": "Electronics", "stock": 200.0, "price": 59.99, "reorderPoint": 30.0},
			}
		},
	},
}

// SampleKeys lists the built-in sample sets in sorted order.
func SampleKeys() []string {
	keys := make([]string, 0, len(samples))
	for k := range samples {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Sample builds a fresh data source from a built-in sample set. Each call
// returns its own rows.
func Sample(key string) (model.DataSource, bool) {
	s, ok := samples[key]
	if !ok {
		return model.DataSource{}, false
	}
	ds := New(s.name, model.SourceSample, s.rows(), nil)
	ds.Fields = append([]model.DataField(nil), s.fields...)
	return ds, true
}
