package entity

import "errors"

var ErrInvalidQuantity = errors.New("cart line quantity must be positive")

// CartLine is one product entry in a cart with its quantity and the unit
// price fixed at the time the product was added.
type CartLine struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image,omitempty"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     int     `json:"quantity"`
}

// CartSnapshot is a complete, immutable view of a cart at a point in time.
// Total and ItemCount are always derived from Lines; every mutation helper
// returns a new snapshot with both recomputed.
type CartSnapshot struct {
	CartID    string     `json:"cart_id,omitempty"`
	UserID    string     `json:"user_id"`
	Lines     []CartLine `json:"lines"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"item_count"`
}

// NewCartSnapshot copies lines and computes the aggregates. Lines with a
// non-positive quantity are never carried into a snapshot.
func NewCartSnapshot(cartID, userID string, lines []CartLine) *CartSnapshot {
	s := &CartSnapshot{
		CartID: cartID,
		UserID: userID,
		Lines:  make([]CartLine, 0, len(lines)),
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			continue
		}
		s.Lines = append(s.Lines, line)
	}
	s.recompute()
	return s
}

func (s *CartSnapshot) recompute() {
	var total float64
	var count int
	for _, line := range s.Lines {
		total += line.UnitPrice * float64(line.Quantity)
		count += line.Quantity
	}
	s.Total = total
	s.ItemCount = count
}

func (s *CartSnapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}

// Line returns the line for productID, by value.
func (s *CartSnapshot) Line(productID string) (CartLine, bool) {
	for _, line := range s.Lines {
		if line.ProductID == productID {
			return line, true
		}
	}
	return CartLine{}, false
}

// LineIndex returns the position of productID's line, or -1.
func (s *CartSnapshot) LineIndex(productID string) int {
	for i, line := range s.Lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *CartSnapshot) clone() *CartSnapshot {
	lines := make([]CartLine, len(s.Lines))
	copy(lines, s.Lines)
	return &CartSnapshot{
		CartID: s.CartID,
		UserID: s.UserID,
		Lines:  lines,
	}
}

// WithLineQuantity returns a new snapshot with productID's quantity replaced
// by quantity (must be >= 1). The receiver is not modified. If the product is
// not present the snapshot is returned unchanged.
func (s *CartSnapshot) WithLineQuantity(productID string, quantity int) (*CartSnapshot, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	idx := s.LineIndex(productID)
	if idx < 0 {
		return s, nil
	}
	next := s.clone()
	next.Lines[idx].Quantity = quantity
	next.recompute()
	return next, nil
}

// WithoutLine returns a new snapshot without productID's line.
func (s *CartSnapshot) WithoutLine(productID string) *CartSnapshot {
	idx := s.LineIndex(productID)
	if idx < 0 {
		return s
	}
	next := s.clone()
	next.Lines = append(next.Lines[:idx], next.Lines[idx+1:]...)
	next.recompute()
	return next
}

// WithLineRestored puts line back exactly as captured before a failed
// mutation: an existing line for the same product is overwritten in place,
// a removed one is re-inserted at its original index.
func (s *CartSnapshot) WithLineRestored(line CartLine, index int) *CartSnapshot {
	next := s.clone()
	if idx := next.LineIndex(line.ProductID); idx >= 0 {
		next.Lines[idx] = line
	} else {
		if index < 0 {
			index = 0
		}
		if index > len(next.Lines) {
			index = len(next.Lines)
		}
		next.Lines = append(next.Lines[:index], append([]CartLine{line}, next.Lines[index:]...)...)
	}
	next.recompute()
	return next
}
