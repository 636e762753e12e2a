package repository

import (
	"context"
	"time"

	"github.com/storefront-go/cart-controller/internal/domain/entity"
)

// Cart is the server-side record the dev cart-manager persists. Unlike the
// client's immutable snapshot it is mutated in place and re-saved.
type Cart struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Items     []entity.CartLine `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func NewCart(id, userID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		ID:        id,
		UserID:    userID,
		Items:     make([]entity.CartLine, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Cart) line(productID string) (*entity.CartLine, int) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i], i
		}
	}
	return nil, -1
}

// AddLine appends a new line or bumps the quantity of an existing one.
func (c *Cart) AddLine(line entity.CartLine) error {
	if line.ProductID == "" {
		return ErrInvalidLine
	}
	if line.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if existing, _ := c.line(line.ProductID); existing != nil {
		existing.Quantity += line.Quantity
	} else {
		c.Items = append(c.Items, line)
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// SetLineQuantity replaces a line's quantity. Quantity must stay >= 1;
// callers remove the line instead of setting it to zero.
func (c *Cart) SetLineQuantity(productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	line, _ := c.line(productID)
	if line == nil {
		return ErrLineNotFound
	}
	line.Quantity = quantity
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (c *Cart) RemoveLine(productID string) error {
	_, idx := c.line(productID)
	if idx < 0 {
		return ErrLineNotFound
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// CartStore is the persistence port for the dev cart-manager server.
type CartStore interface {
	// GetByUserID returns ErrNotFound when no cart exists for the user.
	GetByUserID(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart, ttl time.Duration) error
	DeleteByUserID(ctx context.Context, userID string) error
}
