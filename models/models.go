package models

// Product mirrors the catalog entries served by the commerce API.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
}

// Category groups products; the product list may be omitted by the API.
type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Products    []Product `json:"products,omitempty"`
}

// User is the open profile object persisted alongside the token. Only name
// and email are read by this client; everything else passes through opaquely.
type User map[string]any

func (u User) Name() string {
	s, _ := u["name"].(string)
	return s
}

func (u User) Email() string {
	s, _ := u["email"].(string)
	return s
}

// DisplayName resolves the best available label for greeting the user.
func (u User) DisplayName() string {
	for _, key := range []string{"name", "email", "username"} {
		if s, ok := u[key].(string); ok && s != "" {
			return s
		}
	}
	return "User"
}

// CartItem is a single cart line. ProductID is the identity; at most one
// line exists per product.
type CartItem struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"imageUrl"`
	Quantity  int     `json:"quantity"`
}
