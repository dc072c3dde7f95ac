package catalog

import "github.com/Skotchmaster/crm_dashboard/internal/store"

const (
	OpFetch  = "products/fetchProducts"
	OpDelete = "products/deleteProduct"
	OpUpdate = "products/updateProduct"

	ActionCreateLocal = "products/createLocal"
	ActionClearError  = "products/clearError"
)

const (
	msgFetchFailed  = "Failed to fetch products"
	msgDeleteFailed = "Failed to delete product"
	msgUpdateFailed = "Failed to update product"
)

// Reduce is the pure transition function of the catalog state. It never
// mutates the slices of the incoming state.
func Reduce(s State, a store.Action) State {
	switch a.Type {
	case store.PendingType(OpFetch):
		s.IsLoading = true
		s.Error = ""
	case store.FulfilledType(OpFetch):
		page := a.Payload.(Page)
		s.IsLoading = false
		s.Products = append([]Product(nil), page.Products...)
		if s.Products == nil {
			s.Products = []Product{}
		}
		s.Total = page.Total
		s.Skip = page.Skip
		s.Limit = page.Limit
	case store.RejectedType(OpFetch):
		s.IsLoading = false
		s.Error = messageOr(a.Payload, msgFetchFailed)

	case store.PendingType(OpDelete), store.PendingType(OpUpdate):
		s.IsLoading = true
		s.Error = ""

	case store.FulfilledType(OpDelete):
		id := a.Payload.(int)
		s.IsLoading = false
		kept := make([]Product, 0, len(s.Products))
		for _, p := range s.Products {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		s.Products = kept
	case store.RejectedType(OpDelete):
		s.IsLoading = false
		s.Error = messageOr(a.Payload, msgDeleteFailed)

	case store.FulfilledType(OpUpdate):
		updated := a.Payload.(Product)
		s.IsLoading = false
		for i, p := range s.Products {
			if p.ID == updated.ID {
				next := append([]Product(nil), s.Products...)
				next[i] = updated
				s.Products = next
				break
			}
		}
	case store.RejectedType(OpUpdate):
		s.IsLoading = false
		s.Error = messageOr(a.Payload, msgUpdateFailed)

	case ActionCreateLocal:
		created := a.Payload.(Product)
		next := make([]Product, 0, len(s.Products)+1)
		next = append(next, s.Products...)
		s.Products = append(next, created)
	case ActionClearError:
		s.Error = ""
	}
	return s
}

func messageOr(payload any, def string) string {
	if msg, ok := payload.(string); ok && msg != "" {
		return msg
	}
	return def
}
