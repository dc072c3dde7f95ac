package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Skotchmaster/crm_dashboard/internal/logging"
	"github.com/Skotchmaster/crm_dashboard/internal/store"
)

const (
	DefaultLimit = 10

	PlaceholderThumbnail = "https://via.placeholder.com/150"

	EventsTopic = "product_events"
)

var ErrValidation = errors.New("validation error")

var validate = validator.New()

type ProductAPI interface {
	ListProducts(ctx context.Context, skip, limit int) (*Page, error)
	DeleteProduct(ctx context.Context, id int) error
	UpdateProduct(ctx context.Context, id int, patch Patch) (*Product, error)
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// Indexer mirrors the held page: fetched pages and edited or locally
// created records are upserted, deleted records are removed.
type Indexer interface {
	IndexProducts(ctx context.Context, products []Product) error
	RemoveProduct(ctx context.Context, id int) error
}

type Catalog struct {
	API       ProductAPI
	Publisher Publisher
	Indexer   Indexer

	state *store.Store[State]
}

func New(api ProductAPI, pub Publisher) *Catalog {
	return &Catalog{
		API:       api,
		Publisher: pub,
		state:     store.New(InitialState(), Reduce),
	}
}

func (c *Catalog) State() State {
	return c.state.State()
}

func (c *Catalog) Subscribe(fn store.Listener[State]) func() {
	return c.state.Subscribe(fn)
}

func (c *Catalog) Fetch(ctx context.Context, skip, limit int) store.Async[Page] {
	l := logging.FromContext(ctx).With("svc", "catalog.fetch", "skip", skip, "limit", limit)
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	c.state.Dispatch(store.Action{Type: store.PendingType(OpFetch)})

	page, err := c.API.ListProducts(ctx, skip, limit)
	if err != nil {
		l.Error("fetch_products_error", "reason", "product api request failed", "error", err)
		c.state.Dispatch(store.Action{Type: store.RejectedType(OpFetch), Payload: err.Error()})
		return store.Err[Page](c.State().Error)
	}

	c.state.Dispatch(store.Action{Type: store.FulfilledType(OpFetch), Payload: *page})

	c.index(ctx, page.Products)

	l.Info("fetch_products_success", "count", len(page.Products), "total", page.Total)
	return store.Ok(*page)
}

func (c *Catalog) Delete(ctx context.Context, id int) store.Async[int] {
	l := logging.FromContext(ctx).With("svc", "catalog.delete", "product_id", id)

	c.state.Dispatch(store.Action{Type: store.PendingType(OpDelete)})

	if err := c.API.DeleteProduct(ctx, id); err != nil {
		l.Error("delete_product_error", "reason", "product api request failed", "error", err)
		c.state.Dispatch(store.Action{Type: store.RejectedType(OpDelete)})
		return store.Err[int](msgDeleteFailed)
	}

	c.state.Dispatch(store.Action{Type: store.FulfilledType(OpDelete), Payload: id})
	if c.Indexer != nil {
		if err := c.Indexer.RemoveProduct(ctx, id); err != nil {
			l.Warn("unindex_product_error", "error", err)
		}
	}
	c.publish(ctx, id, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	l.Info("delete_product_success")
	return store.Ok(id)
}

func (c *Catalog) Update(ctx context.Context, id int, patch Patch) store.Async[Product] {
	l := logging.FromContext(ctx).With("svc", "catalog.update", "product_id", id)

	c.state.Dispatch(store.Action{Type: store.PendingType(OpUpdate)})

	updated, err := c.API.UpdateProduct(ctx, id, patch)
	if err != nil {
		l.Error("update_product_error", "reason", "product api request failed", "error", err)
		c.state.Dispatch(store.Action{Type: store.RejectedType(OpUpdate)})
		return store.Err[Product](msgUpdateFailed)
	}

	c.state.Dispatch(store.Action{Type: store.FulfilledType(OpUpdate), Payload: *updated})
	c.index(ctx, []Product{*updated})
	c.publish(ctx, updated.ID, map[string]any{
		"type":      "product_updated",
		"productID": updated.ID,
		"title":     updated.Title,
	})

	l.Info("update_product_success")
	return store.Ok(*updated)
}

// CreateLocal appends a product to the held page without calling the
// product API. The id is max(held ids)+1 and is never checked against
// the remote collection.
func (c *Catalog) CreateLocal(ctx context.Context, np NewProduct) (Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_local")

	if err := validate.Struct(np); err != nil {
		l.Warn("create_product_error", "reason", "invalid product", "error", err)
		return Product{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	prod := Product{
		ID:          NextID(c.State().Products),
		Title:       np.Title,
		Description: np.Description,
		Price:       np.Price,
		Stock:       np.Stock,
		Brand:       np.Brand,
		Category:    np.Category,
		Thumbnail:   PlaceholderThumbnail,
		Images:      []string{},
	}
	c.state.Dispatch(store.Action{Type: ActionCreateLocal, Payload: prod})
	c.index(ctx, []Product{prod})

	c.publish(ctx, prod.ID, map[string]any{
		"type":      "product_created_locally",
		"productID": prod.ID,
		"title":     prod.Title,
	})

	l.Info("create_product_success", "product_id", prod.ID)
	return prod, nil
}

func (c *Catalog) ClearError() {
	c.state.Dispatch(store.Action{Type: ActionClearError})
}

// Filter matches term case-insensitively against title, category and brand
// of the held page.
func (c *Catalog) Filter(term string) []Product {
	return FilterProducts(c.State().Products, term)
}

func FilterProducts(products []Product, term string) []Product {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if term == "" ||
			strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Category), term) ||
			strings.Contains(strings.ToLower(p.Brand), term) {
			out = append(out, p)
		}
	}
	return out
}

func NextID(products []Product) int {
	highest := 0
	for _, p := range products {
		if p.ID > highest {
			highest = p.ID
		}
	}
	return highest + 1
}

func (c *Catalog) index(ctx context.Context, products []Product) {
	if c.Indexer == nil {
		return
	}
	if err := c.Indexer.IndexProducts(ctx, products); err != nil {
		logging.FromContext(ctx).Warn("index_products_error", "count", len(products), "error", err)
	}
}

func (c *Catalog) publish(ctx context.Context, id int, event map[string]any) {
	if c.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Publisher.PublishEvent(ctx, EventsTopic, strconv.Itoa(id), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", EventsTopic, "error", err)
	}
}
