package customers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/crm_dashboard/internal/logging"
)

const (
	EventsTopic = "customer_events"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

var (
	ErrNotFound   = errors.New("customer not found")
	ErrValidation = errors.New("validation error")
)

var validate = validator.New()

type Customer struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"       validate:"required"`
	Email      string  `json:"email"      validate:"required,email"`
	Phone      string  `json:"phone"`
	Location   string  `json:"location"`
	Orders     int     `json:"orders"     validate:"gte=0"`
	TotalSpent float64 `json:"totalSpent" validate:"gte=0"`
	Rating     float64 `json:"rating"     validate:"gte=0,lte=5"`
	Status     string  `json:"status"     validate:"oneof=active inactive"`
	Avatar     string  `json:"avatar"`
}

// NewCustomer is the add form.
type NewCustomer struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

type Stats struct {
	Total         int     `json:"totalCustomers"`
	Active        int     `json:"activeCustomers"`
	ActiveRate    float64 `json:"activeRate"`
	Revenue       float64 `json:"totalRevenue"`
	AvgOrderValue float64 `json:"avgOrderValue"`
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// Book is the in-memory customer list behind the customers screen.
type Book struct {
	Publisher Publisher

	mu        sync.RWMutex
	customers []Customer
}

func NewBook(pub Publisher) *Book {
	return &Book{Publisher: pub, customers: Seed()}
}

// List returns the customers whose name, email or location contains term,
// case-insensitively.
func (b *Book) List(term string) []Customer {
	b.mu.RLock()
	defer b.mu.RUnlock()

	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]Customer, 0, len(b.customers))
	for _, c := range b.customers {
		if term == "" ||
			strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.Email), term) ||
			strings.Contains(strings.ToLower(c.Location), term) {
			out = append(out, c)
		}
	}
	return out
}

func (b *Book) Get(id int) (Customer, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	i := b.index(id)
	if i < 0 {
		return Customer{}, ErrNotFound
	}
	return b.customers[i], nil
}

func (b *Book) Add(ctx context.Context, in NewCustomer) (Customer, error) {
	if err := validate.Struct(in); err != nil {
		return Customer{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	b.mu.Lock()
	c := Customer{
		ID:       nextID(b.customers),
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Location: in.Location,
		Status:   StatusActive,
		Avatar:   AvatarURL(in.Name),
	}
	b.customers = append(b.customers, c)
	b.mu.Unlock()

	b.publish(ctx, "customer_added", c)
	return c, nil
}

// Update replaces the record with the same id.
func (b *Book) Update(ctx context.Context, c Customer) (Customer, error) {
	if err := validate.Struct(c); err != nil {
		return Customer{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	b.mu.Lock()
	i := b.index(c.ID)
	if i < 0 {
		b.mu.Unlock()
		return Customer{}, ErrNotFound
	}
	next := slices.Clone(b.customers)
	next[i] = c
	b.customers = next
	b.mu.Unlock()

	b.publish(ctx, "customer_updated", c)
	return c, nil
}

func (b *Book) Delete(ctx context.Context, id int) error {
	b.mu.Lock()
	i := b.index(id)
	if i < 0 {
		b.mu.Unlock()
		return ErrNotFound
	}
	c := b.customers[i]
	next := make([]Customer, 0, len(b.customers)-1)
	next = append(next, b.customers[:i]...)
	next = append(next, b.customers[i+1:]...)
	b.customers = next
	b.mu.Unlock()

	b.publish(ctx, "customer_deleted", c)
	return nil
}

func (b *Book) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var (
		st      = Stats{Total: len(b.customers)}
		revenue = decimal.Zero
		orders  int
	)
	for _, c := range b.customers {
		if c.Status == StatusActive {
			st.Active++
		}
		revenue = revenue.Add(decimal.NewFromFloat(c.TotalSpent))
		orders += c.Orders
	}

	st.Revenue = revenue.Round(2).InexactFloat64()
	if st.Total > 0 {
		st.ActiveRate = decimal.NewFromInt(int64(st.Active)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(st.Total))).
			Round(1).InexactFloat64()
	}
	if orders > 0 {
		st.AvgOrderValue = revenue.Div(decimal.NewFromInt(int64(orders))).Round(2).InexactFloat64()
	}
	return st
}

// Reset restores the seeded list.
func (b *Book) Reset() {
	b.mu.Lock()
	b.customers = Seed()
	b.mu.Unlock()
}

func (b *Book) index(id int) int {
	return slices.IndexFunc(b.customers, func(c Customer) bool { return c.ID == id })
}

func (b *Book) publish(ctx context.Context, typ string, c Customer) {
	if b.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	event := map[string]any{
		"type":       typ,
		"customerID": c.ID,
		"email":      c.Email,
	}
	if err := b.Publisher.PublishEvent(ctx, EventsTopic, fmt.Sprint(c.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", EventsTopic, "error", err)
	}
}

// AvatarURL builds the generated initials avatar for a new customer.
func AvatarURL(name string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	return "https://ui-avatars.com/api/?name=" + escaped + "&background=3b82f6&color=ffffff"
}

func nextID(cs []Customer) int {
	highest := 0
	for _, c := range cs {
		if c.ID > highest {
			highest = c.ID
		}
	}
	return highest + 1
}
