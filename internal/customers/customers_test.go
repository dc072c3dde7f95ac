package customers

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []map[string]any
}

func (r *recordingPublisher) PublishEvent(ctx context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
	r.events = append(r.events, event.(map[string]any))
	return nil
}

func TestBook_SeededList(t *testing.T) {
	b := NewBook(nil)
	all := b.List("")
	require.Len(t, all, 5)
	assert.Equal(t, "John Doe", all[0].Name)
	assert.Equal(t, StatusInactive, all[3].Status)
}

func TestBook_ListFilters(t *testing.T) {
	b := NewBook(nil)

	tests := []struct {
		term string
		want []int
	}{
		{term: "jane", want: []int{2}},
		{term: "EXAMPLE.COM", want: []int{1, 2, 3, 4, 5}},
		{term: "seattle", want: []int{5}},
		{term: "  chicago ", want: []int{3}},
		{term: "nobody", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			var ids []int
			for _, c := range b.List(tt.term) {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestBook_AddAssignsDefaults(t *testing.T) {
	pub := &recordingPublisher{}
	b := NewBook(pub)

	c, err := b.Add(context.Background(), NewCustomer{Name: "Mary Ann", Email: "mary@example.com", Location: "Austin, TX"})
	require.NoError(t, err)

	assert.Equal(t, 6, c.ID)
	assert.Zero(t, c.Orders)
	assert.Zero(t, c.TotalSpent)
	assert.Zero(t, c.Rating)
	assert.Equal(t, StatusActive, c.Status)
	assert.Equal(t, "https://ui-avatars.com/api/?name=Mary%20Ann&background=3b82f6&color=ffffff", c.Avatar)
	assert.Len(t, b.List(""), 6)

	require.Len(t, pub.events, 1)
	assert.Equal(t, EventsTopic, pub.topics[0])
	assert.Equal(t, "customer_added", pub.events[0]["type"])
}

func TestBook_AddToEmptyBookStartsAtOne(t *testing.T) {
	b := &Book{}
	c, err := b.Add(context.Background(), NewCustomer{Name: "First", Email: "f@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.ID)
}

func TestBook_AddValidation(t *testing.T) {
	b := NewBook(nil)

	for name, in := range map[string]NewCustomer{
		"missing name":  {Email: "x@example.com"},
		"missing email": {Name: "X"},
		"bad email":     {Name: "X", Email: "nope"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := b.Add(context.Background(), in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Len(t, b.List(""), 5)
}

func TestBook_UpdateAndDelete(t *testing.T) {
	b := NewBook(nil)
	ctx := context.Background()

	c, err := b.Get(2)
	require.NoError(t, err)
	c.Status = StatusInactive
	c.Phone = "+1 (555) 000-0000"

	_, err = b.Update(ctx, c)
	require.NoError(t, err)
	got, _ := b.Get(2)
	assert.Equal(t, StatusInactive, got.Status)
	assert.Equal(t, "+1 (555) 000-0000", got.Phone)

	require.NoError(t, b.Delete(ctx, 2))
	_, err = b.Get(2)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, b.Delete(ctx, 2), ErrNotFound)

	_, err = b.Update(ctx, Customer{ID: 99, Name: "x", Email: "x@example.com", Status: StatusActive})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBook_ListReturnsCopy(t *testing.T) {
	b := NewBook(nil)
	list := b.List("")
	list[0].Name = "changed"

	got, err := b.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.Name)
}

func TestBook_Stats(t *testing.T) {
	b := NewBook(nil)
	st := b.Stats()

	assert.Equal(t, 5, st.Total)
	assert.Equal(t, 4, st.Active)
	assert.Equal(t, 80.0, st.ActiveRate)
	assert.Equal(t, 7892.4, st.Revenue)
	assert.Equal(t, 131.54, st.AvgOrderValue)
}

func TestBook_StatsWithoutOrders(t *testing.T) {
	b := &Book{}
	_, err := b.Add(context.Background(), NewCustomer{Name: "New", Email: "n@example.com"})
	require.NoError(t, err)

	st := b.Stats()
	assert.Equal(t, 1, st.Total)
	assert.Equal(t, 100.0, st.ActiveRate)
	assert.Zero(t, st.AvgOrderValue)
	assert.Zero(t, st.Revenue)
}

func TestBook_Reset(t *testing.T) {
	b := NewBook(nil)
	require.NoError(t, b.Delete(context.Background(), 1))
	require.NoError(t, b.Delete(context.Background(), 3))

	b.Reset()
	assert.Len(t, b.List(""), 5)
}
