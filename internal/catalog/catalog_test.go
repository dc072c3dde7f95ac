package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/crm_dashboard/internal/store"
)

type fakeAPI struct {
	page      *Page
	listErr   error
	deleteErr error
	updateErr error

	deleted []int
	patched map[int]Patch
}

func (f *fakeAPI) ListProducts(ctx context.Context, skip, limit int) (*Page, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.page, nil
}

func (f *fakeAPI) DeleteProduct(ctx context.Context, id int) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) UpdateProduct(ctx context.Context, id int, patch Patch) (*Product, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.patched == nil {
		f.patched = map[int]Patch{}
	}
	f.patched[id] = patch
	for _, p := range f.page.Products {
		if p.ID == id {
			if patch.Title != nil {
				p.Title = *patch.Title
			}
			if patch.Price != nil {
				p.Price = *patch.Price
			}
			return &p, nil
		}
	}
	return &Product{ID: id, Title: "remote only"}, nil
}

type recordingPublisher struct {
	events []map[string]any
}

func (r *recordingPublisher) PublishEvent(ctx context.Context, topic, key string, event any) error {
	r.events = append(r.events, event.(map[string]any))
	return nil
}

type recordingIndexer struct {
	indexed [][]Product
	removed []int
}

func (r *recordingIndexer) IndexProducts(ctx context.Context, products []Product) error {
	r.indexed = append(r.indexed, products)
	return nil
}

func (r *recordingIndexer) RemoveProduct(ctx context.Context, id int) error {
	r.removed = append(r.removed, id)
	return nil
}

// loadingByAction records IsLoading as seen after each dispatched action.
func loadingByAction(t *testing.T, c *Catalog) map[string]bool {
	t.Helper()
	seen := map[string]bool{}
	t.Cleanup(c.Subscribe(func(st State, a store.Action) {
		seen[a.Type] = st.IsLoading
	}))
	return seen
}

func samplePage() *Page {
	return &Page{
		Products: []Product{
			{ID: 1, Title: "Essence Mascara", Brand: "Essence", Category: "beauty", Price: 9.99, Stock: 5},
			{ID: 2, Title: "Eyeshadow Palette", Brand: "Glamour", Category: "beauty", Price: 19.99, Stock: 44},
			{ID: 7, Title: "Chanel Coco Noir", Brand: "Chanel", Category: "fragrances", Price: 129.99, Stock: 41},
		},
		Total: 194,
		Skip:  0,
		Limit: 3,
	}
}

func fetched(t *testing.T, api *fakeAPI) *Catalog {
	t.Helper()
	c := New(api, nil)
	res := c.Fetch(context.Background(), 0, 3)
	require.True(t, res.IsOk())
	return c
}

func TestCatalog_InitialState(t *testing.T) {
	c := New(&fakeAPI{}, nil)
	st := c.State()
	assert.Empty(t, st.Products)
	assert.Equal(t, 10, st.Limit)
	assert.False(t, st.IsLoading)
}

func TestCatalog_FetchReplacesCollectionAndCounters(t *testing.T) {
	api := &fakeAPI{page: samplePage()}
	c := fetched(t, api)

	st := c.State()
	assert.Equal(t, api.page.Products, st.Products)
	assert.Equal(t, 194, st.Total)
	assert.Equal(t, 0, st.Skip)
	assert.Equal(t, 3, st.Limit)
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Error)
}

func TestCatalog_FetchRejectedKeepsCollection(t *testing.T) {
	api := &fakeAPI{page: samplePage()}
	c := fetched(t, api)

	api.listErr = errors.New("dial tcp: connection refused")
	res := c.Fetch(context.Background(), 3, 3)

	assert.Equal(t, store.StatusErr, res.Status())
	st := c.State()
	assert.Len(t, st.Products, 3)
	assert.False(t, st.IsLoading)
	assert.Equal(t, "dial tcp: connection refused", st.Error)
}

func TestCatalog_FetchPendingClearsError(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("boom")}
	c := New(api, nil)
	c.Fetch(context.Background(), 0, 10)
	require.NotEmpty(t, c.State().Error)

	var sawPending bool
	unsubscribe := c.Subscribe(func(st State, a store.Action) {
		if a.Type == store.PendingType(OpFetch) {
			sawPending = st.IsLoading && st.Error == ""
		}
	})
	defer unsubscribe()

	api.listErr = nil
	api.page = samplePage()
	c.Fetch(context.Background(), 0, 10)
	assert.True(t, sawPending)
}

func TestCatalog_DeletePresentID(t *testing.T) {
	api := &fakeAPI{page: samplePage()}
	pub := &recordingPublisher{}
	c := fetched(t, api)
	c.Publisher = pub

	res := c.Delete(context.Background(), 2)
	require.True(t, res.IsOk())

	st := c.State()
	require.Len(t, st.Products, 2)
	for _, p := range st.Products {
		assert.NotEqual(t, 2, p.ID)
	}
	assert.Equal(t, []int{2}, api.deleted)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "product_deleted", pub.events[0]["type"])
}

func TestCatalog_DeleteTogglesLoading(t *testing.T) {
	api := &fakeAPI{page: samplePage()}
	c := fetched(t, api)
	seen := loadingByAction(t, c)

	require.True(t, c.Delete(context.Background(), 2).IsOk())
	assert.True(t, seen[store.PendingType(OpDelete)])
	assert.False(t, seen[store.FulfilledType(OpDelete)])

	api.deleteErr = errors.New("status 500")
	c.Delete(context.Background(), 1)
	assert.False(t, seen[store.RejectedType(OpDelete)])
	assert.False(t, c.State().IsLoading)
}

func TestCatalog_DeleteMissingIDIsNoop(t *testing.T) {
	api := &fakeAPI{page: samplePage()}
	c := fetched(t, api)

	res := c.Delete(context.Background(), 999)
	require.True(t, res.IsOk())
	assert.Equal(t, api.page.Products, c.State().Products)
}

func TestCatalog_DeleteFailureSetsError(t *testing.T) {
	api := &fakeAPI{page: samplePage()}
	c := fetched(t, api)
	api.deleteErr = errors.New("status 500")

	res := c.Delete(context.Background(), 1)
	assert.Equal(t, "Failed to delete product", res.Message())
	assert.Len(t, c.State().Products, 3)
	assert.Equal(t, "Failed to delete product", c.State().Error)
}

func TestCatalog_UpdateReplacesOnlyMatchingRecord(t *testing.T) {
	api := &fakeAPI{page: samplePage()}
	c := fetched(t, api)

	title := "Essence Mascara Lash Princess"
	price := 11.5
	res := c.Update(context.Background(), 1, Patch{Title: &title, Price: &price})
	require.True(t, res.IsOk())

	st := c.State()
	assert.Equal(t, title, st.Products[0].Title)
	assert.Equal(t, 11.5, st.Products[0].Price)
	assert.Equal(t, api.page.Products[1], st.Products[1])
	assert.Equal(t, api.page.Products[2], st.Products[2])
}

func TestCatalog_UpdateTogglesLoading(t *testing.T) {
	api := &fakeAPI{page: samplePage()}
	c := fetched(t, api)
	seen := loadingByAction(t, c)

	title := "x"
	require.True(t, c.Update(context.Background(), 1, Patch{Title: &title}).IsOk())
	assert.True(t, seen[store.PendingType(OpUpdate)])
	assert.False(t, seen[store.FulfilledType(OpUpdate)])

	api.updateErr = errors.New("timeout")
	c.Update(context.Background(), 1, Patch{Title: &title})
	assert.False(t, seen[store.RejectedType(OpUpdate)])
	assert.False(t, c.State().IsLoading)
}

func TestCatalog_UpdateDoesNotMutatePreviousSnapshot(t *testing.T) {
	api := &fakeAPI{page: samplePage()}
	c := fetched(t, api)
	before := c.State()

	title := "changed"
	c.Update(context.Background(), 1, Patch{Title: &title})

	assert.Equal(t, "Essence Mascara", before.Products[0].Title)
}

func TestCatalog_UpdateUnknownIDLeavesCollection(t *testing.T) {
	api := &fakeAPI{page: samplePage()}
	c := fetched(t, api)

	title := "x"
	res := c.Update(context.Background(), 55, Patch{Title: &title})
	require.True(t, res.IsOk())
	assert.Equal(t, api.page.Products, c.State().Products)
}

func TestCatalog_UpdateFailureSetsError(t *testing.T) {
	api := &fakeAPI{page: samplePage(), updateErr: errors.New("timeout")}
	c := fetched(t, api)

	title := "x"
	res := c.Update(context.Background(), 1, Patch{Title: &title})
	assert.Equal(t, store.StatusErr, res.Status())
	assert.Equal(t, "Failed to update product", c.State().Error)
	assert.Equal(t, "Essence Mascara", c.State().Products[0].Title)

	c.ClearError()
	assert.Empty(t, c.State().Error)
}

func TestCatalog_CreateLocalAssignsMaxPlusOne(t *testing.T) {
	api := &fakeAPI{page: samplePage()}
	c := fetched(t, api)

	prod, err := c.CreateLocal(context.Background(), NewProduct{Title: "Desk Lamp", Price: 25, Stock: 3, Category: "home"})
	require.NoError(t, err)

	assert.Equal(t, 8, prod.ID)
	assert.Equal(t, PlaceholderThumbnail, prod.Thumbnail)
	assert.Len(t, c.State().Products, 4)
	assert.Empty(t, api.deleted)
	assert.Nil(t, api.patched)
}

func TestCatalog_CreateLocalOnEmptyCollection(t *testing.T) {
	c := New(&fakeAPI{}, nil)
	prod, err := c.CreateLocal(context.Background(), NewProduct{Title: "First", Price: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, prod.ID)
}

func TestCatalog_CreateLocalValidation(t *testing.T) {
	c := New(&fakeAPI{}, nil)

	tests := []struct {
		name string
		in   NewProduct
	}{
		{name: "missing title", in: NewProduct{Price: 10}},
		{name: "zero price", in: NewProduct{Title: "x"}},
		{name: "negative stock", in: NewProduct{Title: "x", Price: 1, Stock: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.CreateLocal(context.Background(), tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Empty(t, c.State().Products)
}

func TestCatalog_IndexFollowsHeldPage(t *testing.T) {
	api := &fakeAPI{page: samplePage()}
	ix := &recordingIndexer{}
	c := New(api, nil)
	c.Indexer = ix
	ctx := context.Background()

	require.True(t, c.Fetch(ctx, 0, 3).IsOk())
	require.Len(t, ix.indexed, 1)
	assert.Len(t, ix.indexed[0], 3)

	require.True(t, c.Delete(ctx, 2).IsOk())
	assert.Equal(t, []int{2}, ix.removed)

	title := "Essence Mascara Lash Princess"
	require.True(t, c.Update(ctx, 1, Patch{Title: &title}).IsOk())
	require.Len(t, ix.indexed, 2)
	require.Len(t, ix.indexed[1], 1)
	assert.Equal(t, title, ix.indexed[1][0].Title)

	prod, err := c.CreateLocal(ctx, NewProduct{Title: "Desk Lamp", Price: 25})
	require.NoError(t, err)
	require.Len(t, ix.indexed, 3)
	assert.Equal(t, []Product{prod}, ix.indexed[2])
}

func TestCatalog_FailedDeleteKeepsIndex(t *testing.T) {
	api := &fakeAPI{page: samplePage(), deleteErr: errors.New("status 500")}
	ix := &recordingIndexer{}
	c := fetched(t, api)
	c.Indexer = ix

	c.Delete(context.Background(), 1)
	assert.Empty(t, ix.removed)
}

func TestFilterProducts(t *testing.T) {
	products := samplePage().Products

	assert.Len(t, FilterProducts(products, ""), 3)
	assert.Len(t, FilterProducts(products, "BEAUTY"), 2)
	assert.Len(t, FilterProducts(products, "chanel"), 1)
	assert.Len(t, FilterProducts(products, "palette"), 1)
	assert.Empty(t, FilterProducts(products, "laptop"))
}
