package mockdata

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

// Services owns the mutable mock datasets. Every operation waits the
// configured latency first, which a cancelled context cuts short.
type Services struct {
	mu          sync.Mutex
	tickets     []Ticket
	incidents   []Incident
	deployments []Deployment
	inventory   []InventoryItem
	customers   []Customer
	sales       []SalesRecord
	products    []Product
	users       []UserMetric
	kpis        []KPI

	delay time.Duration
	now   func() time.Time
}

// New returns services seeded with the canned datasets. Reads wait half of
// delay; writes and list queries wait the full delay.
func New(delay time.Duration) *Services {
	return &Services{
		tickets:     seedTickets(),
		incidents:   seedIncidents(),
		deployments: seedDeployments(),
		inventory:   seedInventory(),
		customers:   seedCustomers(),
		sales:       seedSales(),
		products:    seedProducts(),
		users:       seedUsers(),
		kpis:        seedKPIs(),
		delay:       delay,
		now:         time.Now,
	}
}

func (s *Services) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("mockdata: %w", err)
		}
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("mockdata: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}

func (s *Services) timestamp() string {
	return s.now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// TicketFilter narrows GetTickets. Empty fields match everything.
type TicketFilter struct {
	Status   string
	Priority string
	Assignee string
}

// GetTickets lists tickets. Assignee is a case-insensitive substring match;
// unassigned tickets never match it.
func (s *Services) GetTickets(ctx context.Context, f TicketFilter) ([]Ticket, error) {
	if err := s.wait(ctx, s.delay); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.Assignee != "" && (t.Assignee == nil || !containsFold(*t.Assignee, f.Assignee)) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// GetTicketByID returns the ticket, or nil when there is none.
func (s *Services) GetTicketByID(ctx context.Context, id string) (*Ticket, error) {
	if err := s.wait(ctx, s.delay/2); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tickets {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, nil
}

// TicketStats counts tickets by status.
type TicketStats struct {
	Open            int    `json:"open"`
	InProgress      int    `json:"in_progress"`
	Resolved        int    `json:"resolved"`
	AvgResponseTime string `json:"avg_response_time"`
}

// GetTicketStats counts open, in-progress and resolved-or-closed tickets.
func (s *Services) GetTicketStats(ctx context.Context) (TicketStats, error) {
	if err := s.wait(ctx, s.delay/2); err != nil {
		return TicketStats{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st := TicketStats{AvgResponseTime: "2.4 hours"}
	for _, t := range s.tickets {
		switch t.Status {
		case "open":
			st.Open++
		case "in_progress":
			st.InProgress++
		case "resolved", "closed":
			st.Resolved++
		}
	}
	return st, nil
}

// NewTicket carries the caller-supplied fields of CreateTicket.
type NewTicket struct {
	Title       string
	Description string
	Priority    string
	Assignee    string
	Customer    string
	Category    string
}

// CreateTicket appends an open ticket, filling defaults for empty fields.
func (s *Services) CreateTicket(ctx context.Context, in NewTicket) (Ticket, error) {
	if err := s.wait(ctx, s.delay); err != nil {
		return Ticket{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.timestamp()
	t := Ticket{
		ID:          fmt.Sprintf("TKT-%d", 1241+len(s.tickets)),
		Title:       orDefault(in.Title, "New Ticket"),
		Description: in.Description,
		Priority:    orDefault(in.Priority, "medium"),
		Status:      "open",
		Customer:    orDefault(in.Customer, "Unknown"),
		CreatedAt:   now,
		UpdatedAt:   now,
		Category:    orDefault(in.Category, "General"),
	}
	if in.Assignee != "" {
		t.Assignee = &in.Assignee
	}
	s.tickets = append(s.tickets, t)
	return t, nil
}

// TicketUpdate lists the fields UpdateTicket may change. Nil leaves a field as is.
type TicketUpdate struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	Assignee    *string
	Customer    *string
	Category    *string
}

// UpdateTicket applies the update and bumps UpdatedAt. It returns nil for an
// unknown id.
func (s *Services) UpdateTicket(ctx context.Context, id string, u TicketUpdate) (*Ticket, error) {
	if err := s.wait(ctx, s.delay); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tickets {
		t := &s.tickets[i]
		if t.ID != id {
			continue
		}
		set(&t.Title, u.Title)
		set(&t.Description, u.Description)
		set(&t.Status, u.Status)
		set(&t.Priority, u.Priority)
		set(&t.Customer, u.Customer)
		set(&t.Category, u.Category)
		if u.Assignee != nil {
			a := *u.Assignee
			t.Assignee = &a
		}
		t.UpdatedAt = s.timestamp()
		out := *t
		return &out, nil
	}
	return nil, nil
}

// AssignTicket sets the assignee and moves the ticket to in_progress.
func (s *Services) AssignTicket(ctx context.Context, id, assignee string) (*Ticket, error) {
	return s.UpdateTicket(ctx, id, TicketUpdate{Assignee: &assignee, Status: ptr("in_progress")})
}

// GetIncidents lists incidents by exact severity and status.
func (s *Services) GetIncidents(ctx context.Context, severity, status string) ([]Incident, error) {
	if err := s.wait(ctx, s.delay); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Incident, 0, len(s.incidents))
	for _, in := range s.incidents {
		if (severity == "" || in.Severity == severity) && (status == "" || in.Status == status) {
			out = append(out, in)
		}
	}
	return out, nil
}

// GetDeployments lists deployments by exact environment and status.
func (s *Services) GetDeployments(ctx context.Context, environment, status string) ([]Deployment, error) {
	if err := s.wait(ctx, s.delay); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Deployment, 0, len(s.deployments))
	for _, d := range s.deployments {
		if (environment == "" || d.Environment == environment) && (status == "" || d.Status == status) {
			out = append(out, d)
		}
	}
	return out, nil
}

// SystemHealth is the platform summary.
type SystemHealth struct {
	Uptime          string `json:"uptime"`
	ErrorRate       string `json:"error_rate"`
	Latency         string `json:"latency"`
	ActiveIncidents int    `json:"active_incidents"`
}

// GetSystemHealth reports fixed uptime figures and the unresolved incident count.
func (s *Services) GetSystemHealth(ctx context.Context) (SystemHealth, error) {
	if err := s.wait(ctx, s.delay/2); err != nil {
		return SystemHealth{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h := SystemHealth{Uptime: "99.95%", ErrorRate: "0.12%", Latency: "145ms"}
	for _, in := range s.incidents {
		if in.Status != "resolved" {
			h.ActiveIncidents++
		}
	}
	return h, nil
}

// GetInventory lists items. Category matches case-insensitively; lowStock
// keeps items at or below their reorder level.
func (s *Services) GetInventory(ctx context.Context, category string, lowStock bool) ([]InventoryItem, error) {
	if err := s.wait(ctx, s.delay); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]InventoryItem, 0, len(s.inventory))
	for _, it := range s.inventory {
		if category != "" && !strings.EqualFold(it.Category, category) {
			continue
		}
		if lowStock && it.Quantity > it.ReorderLevel {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// GetInventoryByID looks an item up by id or SKU, or returns nil.
func (s *Services) GetInventoryByID(ctx context.Context, id string) (*InventoryItem, error) {
	if err := s.wait(ctx, s.delay/2); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.inventory {
		if it.ID == id || it.SKU == id {
			return &it, nil
		}
	}
	return nil, nil
}

// InventoryStats summarizes stock.
type InventoryStats struct {
	TotalSKUs  int     `json:"total_skus"`
	LowStock   int     `json:"low_stock"`
	TotalValue float64 `json:"total_value"`
	Categories int     `json:"categories"`
}

// GetInventoryStats totals stock value and counts low-stock items and categories.
func (s *Services) GetInventoryStats(ctx context.Context) (InventoryStats, error) {
	if err := s.wait(ctx, s.delay/2); err != nil {
		return InventoryStats{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st := InventoryStats{TotalSKUs: len(s.inventory)}
	cats := make(map[string]bool)
	for _, it := range s.inventory {
		if it.Quantity <= it.ReorderLevel {
			st.LowStock++
		}
		st.TotalValue += it.Quantity * it.UnitPrice
		cats[it.Category] = true
	}
	st.Categories = len(cats)
	return st, nil
}

// UpdateStock sets an item's quantity and stamps today as its restock date.
// It returns nil for an unknown SKU.
func (s *Services) UpdateStock(ctx context.Context, sku string, quantity float64) (*InventoryItem, error) {
	if err := s.wait(ctx, s.delay); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.inventory {
		it := &s.inventory[i]
		if it.SKU != sku {
			continue
		}
		it.Quantity = quantity
		it.LastRestocked = s.now().UTC().Format("2006-01-02")
		out := *it
		return &out, nil
	}
	return nil, nil
}

// GetCustomers lists customers by exact status and plan.
func (s *Services) GetCustomers(ctx context.Context, status, plan string) ([]Customer, error) {
	if err := s.wait(ctx, s.delay); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Customer, 0, len(s.customers))
	for _, c := range s.customers {
		if (status == "" || c.Status == status) && (plan == "" || c.Plan == plan) {
			out = append(out, c)
		}
	}
	return out, nil
}

// GetCustomerByID returns the customer, or nil.
func (s *Services) GetCustomerByID(ctx context.Context, id string) (*Customer, error) {
	if err := s.wait(ctx, s.delay/2); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

// CustomerStats summarizes the book of business.
type CustomerStats struct {
	TotalCustomers int     `json:"total_customers"`
	AtRisk         int     `json:"at_risk"`
	AvgHealthScore float64 `json:"avg_health_score"`
	TotalMRR       float64 `json:"total_mrr"`
	AvgNPS         float64 `json:"avg_nps"`
}

// GetCustomerStats rounds the health average to a whole number and the NPS
// average, over customers with a score, to one decimal.
func (s *Services) GetCustomerStats(ctx context.Context) (CustomerStats, error) {
	if err := s.wait(ctx, s.delay/2); err != nil {
		return CustomerStats{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st := CustomerStats{TotalCustomers: len(s.customers)}
	var health float64
	var nps, withNPS int
	for _, c := range s.customers {
		if c.Status == "at_risk" {
			st.AtRisk++
		}
		health += c.HealthScore
		st.TotalMRR += c.MRR
		if c.NPSScore != nil {
			nps += *c.NPSScore
			withNPS++
		}
	}
	if len(s.customers) > 0 {
		st.AvgHealthScore = math.Floor(health/float64(len(s.customers)) + 0.5)
	}
	if withNPS > 0 {
		st.AvgNPS = math.Floor(float64(nps)/float64(withNPS)*10+0.5) / 10
	}
	return st, nil
}

// UpdateCustomerHealth sets the score; 70 and above is healthy, anything
// lower is at risk. It returns nil for an unknown id.
func (s *Services) UpdateCustomerHealth(ctx context.Context, id string, score float64) (*Customer, error) {
	if err := s.wait(ctx, s.delay); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.customers {
		c := &s.customers[i]
		if c.ID != id {
			continue
		}
		c.HealthScore = score
		c.Status = "at_risk"
		if score >= 70 {
			c.Status = "healthy"
		}
		out := *c
		return &out, nil
	}
	return nil, nil
}

// GetSalesData lists monthly sales, matching region and category case-insensitively.
func (s *Services) GetSalesData(ctx context.Context, region, category string) ([]SalesRecord, error) {
	if err := s.wait(ctx, s.delay); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SalesRecord, 0, len(s.sales))
	for _, r := range s.sales {
		if (region == "" || strings.EqualFold(r.Region, region)) && (category == "" || strings.EqualFold(r.Category, category)) {
			out = append(out, r)
		}
	}
	return out, nil
}

// GetProducts lists top products, optionally by category.
func (s *Services) GetProducts(ctx context.Context, category string) ([]Product, error) {
	if err := s.wait(ctx, s.delay); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if category == "" || strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetUserData lists monthly user activity, optionally by segment.
func (s *Services) GetUserData(ctx context.Context, segment string) ([]UserMetric, error) {
	if err := s.wait(ctx, s.delay); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]UserMetric, 0, len(s.users))
	for _, u := range s.users {
		if segment == "" || strings.EqualFold(u.Segment, segment) {
			out = append(out, u)
		}
	}
	return out, nil
}

// GetKPIs lists headline indicators, optionally by category.
func (s *Services) GetKPIs(ctx context.Context, category string) ([]KPI, error) {
	if err := s.wait(ctx, s.delay); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]KPI, 0, len(s.kpis))
	for _, k := range s.kpis {
		if category == "" || strings.EqualFold(k.Category, category) {
			out = append(out, k)
		}
	}
	return out, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
