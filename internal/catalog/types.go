package catalog

type Product struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	Brand              string   `json:"brand"`
	Category           string   `json:"category"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images"`
}

// Page is one skip/limit window of the remote product collection.
type Page struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// Patch carries the fields of an update; nil fields are not sent.
type Patch struct {
	Title              *string  `json:"title,omitempty"`
	Description        *string  `json:"description,omitempty"`
	Price              *float64 `json:"price,omitempty"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
	Rating             *float64 `json:"rating,omitempty"`
	Stock              *int     `json:"stock,omitempty"`
	Brand              *string  `json:"brand,omitempty"`
	Category           *string  `json:"category,omitempty"`
	Thumbnail          *string  `json:"thumbnail,omitempty"`
}

type NewProduct struct {
	Title       string  `json:"title"       validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"gt=0"`
	Stock       int     `json:"stock"       validate:"gte=0"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
}

type State struct {
	Products  []Product `json:"products"`
	IsLoading bool      `json:"isLoading"`
	Error     string    `json:"error,omitempty"`
	Total     int       `json:"total"`
	Skip      int       `json:"skip"`
	Limit     int       `json:"limit"`
}

func InitialState() State {
	return State{
		Products: []Product{},
		Limit:    DefaultLimit,
	}
}
