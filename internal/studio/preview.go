package studio

import (
	"github.com/ashita-ai/studio/internal/catalog"
	"github.com/ashita-ai/studio/internal/datasource"
	"github.com/ashita-ai/studio/internal/model"
)

// maxPreviewRows caps the rows shown when a data source drives the table.
const maxPreviewRows = 10

// Preview is the live preview panel: one entry per enabled widget.
type Preview struct {
	Title   string `json:"title"`
	KPIs    []KPI  `json:"kpis,omitempty"`
	Graph   *Graph `json:"graph,omitempty"`
	Table   *Table `json:"table,omitempty"`
	Empty   bool   `json:"empty"`
	Message string `json:"message,omitempty"`
}

// KPI is a single metric card.
type KPI struct {
	Title  string `json:"title"`
	Value  string `json:"value"`
	Change string `json:"change,omitempty"`
	Trend  string `json:"trend,omitempty"`
}

// Graph is a bar or line chart.
type Graph struct {
	Type     string    `json:"type"`
	Title    string    `json:"title"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one chart series.
type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// Table is a data table. Source names the data source when rows come from one.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]Cell `json:"rows"`
	Source  string   `json:"source,omitempty"`
}

// Cell is a table cell. Variant is set when the cell renders as a status badge.
type Cell struct {
	Text    string `json:"text"`
	Variant string `json:"variant,omitempty"`
}

// Badge variants.
const (
	VariantSuccess = "success"
	VariantWarning = "warning"
	VariantError   = "error"
	VariantDefault = "default"
)

type mockPreview struct {
	kpis  []KPI
	graph Graph
	table Table
}

func text(s string) Cell           { return Cell{Text: s} }
func badge(s, variant string) Cell { return Cell{Text: s, Variant: variant} }

func up(title, value, change string) KPI {
	return KPI{Title: title, Value: value, Change: change, Trend: "up"}
}

func down(title, value, change string) KPI {
	return KPI{Title: title, Value: value, Change: change, Trend: "down"}
}

var mockPreviews = map[string]mockPreview{
	catalog.TemplateSalesAnalytics: {
		kpis: []KPI{up("Total Revenue", "$2.4M", "12.5%"), up("Active Deals", "156", "8.2%"), up("Customers", "1,234", "5.1%")},
		graph: Graph{Type: "bar", Labels: []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"},
			Datasets: []Dataset{{Label: "Revenue", Data: []float64{45, 52, 38, 61, 43, 55}}}},
		table: Table{Columns: []string{"Deal", "Value", "Stage", "Close Date"}, Rows: [][]Cell{
			{text("Enterprise Plan"), text("$45,000"), badge("Negotiation", VariantWarning), text("Mar 15")},
			{text("Team License"), text("$12,000"), badge("Proposal", VariantDefault), text("Mar 20")},
			{text("Annual Contract"), text("$89,000"), badge("Closed Won", VariantSuccess), text("Mar 10")},
		}},
	},
	catalog.TemplateSupportOps: {
		kpis: []KPI{up("Open Tickets", "47", "3 new"), down("Avg Response", "2.4h", "15%"), up("Resolved Today", "23", "8%")},
		graph: Graph{Type: "line", Labels: []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
			Datasets: []Dataset{{Label: "Tickets", Data: []float64{12, 19, 15, 8, 14}}}},
		table: Table{Columns: []string{"Ticket", "Priority", "Status", "Assignee"}, Rows: [][]Cell{
			{text("#1234 - Login issue"), badge("High", VariantError), text("Open"), text("Sarah")},
			{text("#1235 - Payment failed"), badge("Medium", VariantWarning), text("In Progress"), text("Mike")},
			{text("#1236 - Feature request"), badge("Low", VariantDefault), text("Open"), text("Unassigned")},
		}},
	},
	catalog.TemplateEngineeringOps: {
		kpis: []KPI{up("System Health", "99.9%", "0.1%"), down("Active Incidents", "2", "1 resolved"), up("Deployments", "12", "Today")},
		graph: Graph{Type: "line", Labels: []string{"00:00", "04:00", "08:00", "12:00", "16:00", "20:00"},
			Datasets: []Dataset{{Label: "Response Time (ms)", Data: []float64{120, 115, 180, 145, 130, 125}}}},
		table: Table{Columns: []string{"Incident", "Severity", "Status", "Duration"}, Rows: [][]Cell{
			{text("API Latency Spike"), badge("P1", VariantError), text("Investigating"), text("15m")},
			{text("DB Connection Pool"), badge("P2", VariantWarning), text("Monitoring"), text("2h")},
			{text("Cache Miss Rate"), badge("P3", VariantDefault), text("Resolved"), text("45m")},
		}},
	},
	catalog.TemplateInventoryManager: {
		kpis: []KPI{up("Total SKUs", "2,847", "23 new"), up("Low Stock", "18", "5 critical"), up("Orders Today", "156", "12%")},
		graph: Graph{Type: "bar", Labels: []string{"Electronics", "Clothing", "Home", "Sports", "Books"},
			Datasets: []Dataset{{Label: "Stock Level", Data: []float64{450, 320, 280, 190, 410}}}},
		table: Table{Columns: []string{"Product", "SKU", "Stock", "Status"}, Rows: [][]Cell{
			{text("Wireless Mouse"), text("WM-001"), text("12"), badge("Low", VariantError)},
			{text("USB Cable"), text("UC-042"), text("245"), badge("OK", VariantSuccess)},
			{text("Keyboard"), text("KB-015"), text("38"), badge("Medium", VariantWarning)},
		}},
	},
	catalog.TemplateCustomerSuccess: {
		kpis: []KPI{up("Health Score", "78%", "3%"), up("At Risk", "12", "2 new"), up("NPS Score", "72", "5 pts")},
		graph: Graph{Type: "line", Labels: []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"},
			Datasets: []Dataset{{Label: "Health Score", Data: []float64{72, 74, 71, 75, 76, 78}}}},
		table: Table{Columns: []string{"Customer", "Health", "MRR", "Last Contact"}, Rows: [][]Cell{
			{text("Acme Corp"), badge("Healthy", VariantSuccess), text("$12,000"), text("2 days ago")},
			{text("TechStart Inc"), badge("At Risk", VariantError), text("$8,500"), text("2 weeks ago")},
			{text("Global Ltd"), badge("Neutral", VariantWarning), text("$15,000"), text("5 days ago")},
		}},
	},
}

var defaultPreview = mockPreview{
	kpis: []KPI{up("Metric 1", "1,234", "5%"), up("Metric 2", "567", "3%"), down("Metric 3", "89%", "2%")},
	graph: Graph{Type: "bar", Labels: []string{"A", "B", "C", "D", "E"},
		Datasets: []Dataset{{Label: "Data", Data: []float64{30, 45, 28, 52, 38}}}},
	table: Table{Columns: []string{"Item", "Value", "Status"}, Rows: [][]Cell{
		{text("Item 1"), text("100"), badge("Active", VariantSuccess)},
		{text("Item 2"), text("200"), badge("Pending", VariantWarning)},
	}},
}

// Preview renders the enabled graph, kpi-card and data-table widgets with the
// template's mock data. The active data source, if any, replaces the mock table.
func (s *Session) Preview() Preview {
	st := s.Snapshot()
	if st.Template == nil {
		return Preview{Empty: true, Message: "Preview will appear here"}
	}

	mock, ok := mockPreviews[st.Template.ID]
	if !ok {
		mock = defaultPreview
	}

	enabled := make(map[string]bool)
	for _, c := range st.Components {
		if c.Enabled {
			enabled[c.ID] = true
		}
	}

	p := Preview{Title: st.AppName}
	if len(enabled) == 0 {
		p.Empty = true
		p.Message = "Enable components to see preview"
		return p
	}
	if enabled[catalog.ComponentKPICard] {
		p.KPIs = append([]KPI(nil), mock.kpis...)
	}
	if enabled[catalog.ComponentGraph] {
		g := mock.graph
		g.Title = st.Template.Name + " Overview"
		p.Graph = &g
	}
	if enabled[catalog.ComponentDataTable] {
		t := mock.table
		for _, ds := range st.DataSources {
			if ds.ID == st.ActiveDataSourceID {
				t = sourceTable(ds)
				break
			}
		}
		p.Table = &t
	}
	return p
}

func sourceTable(ds model.DataSource) Table {
	t := Table{Columns: ds.FieldNames(), Rows: [][]Cell{}, Source: ds.Name}
	for i, row := range ds.Data {
		if i == maxPreviewRows {
			break
		}
		cells := make([]Cell, len(t.Columns))
		for j, col := range t.Columns {
			if v, ok := row[col]; ok && v != nil {
				cells[j] = text(datasource.Stringify(v))
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}
