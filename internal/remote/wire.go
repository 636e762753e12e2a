package remote

import (
	"time"

	"github.com/storefront-go/cart-controller/internal/domain/entity"
)

// Action is the wire-level tag carried by the cart-manager envelope. The
// controller never dispatches on these; they are shared between the HTTP
// client adapter and the dev server so both sides agree on the vocabulary.
type Action string

const (
	// ActionGet is the implicit read: an envelope with no action set.
	ActionGet Action = ""
	// ActionAdd is only issued by storefront surfaces outside this module;
	// the dev server supports it so local carts can be populated.
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionRemove Action = "remove"
)

// ActionRequest is the JSON envelope accepted by the single cart-manager
// endpoint. Product fields beyond ProductID are only used by ActionAdd.
type ActionRequest struct {
	Action       Action  `json:"action,omitempty"`
	UserID       string  `json:"user_id"`
	ProductID    string  `json:"product_id,omitempty"`
	Quantity     int     `json:"quantity,omitempty"`
	ProductName  string  `json:"product_name,omitempty"`
	ProductImage string  `json:"product_image,omitempty"`
	UnitPrice    float64 `json:"unit_price,omitempty"`
}

// CartMeta mirrors the cart record the service returns alongside items.
// Cart is null in responses until a cart exists for the user.
type CartMeta struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartResponse is the snapshot payload returned for every action.
type CartResponse struct {
	Cart      *CartMeta         `json:"cart"`
	Items     []entity.CartLine `json:"items"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"item_count"`
}

// Snapshot converts a wire response into a domain snapshot. Aggregates are
// recomputed from the items rather than trusted from the wire.
func (r *CartResponse) Snapshot(userID string) *entity.CartSnapshot {
	cartID := ""
	if r.Cart != nil {
		cartID = r.Cart.ID
		if r.Cart.UserID != "" {
			userID = r.Cart.UserID
		}
	}
	return entity.NewCartSnapshot(cartID, userID, r.Items)
}

// ErrorResponse is the error body returned by the cart-manager endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
