package remote

import (
	"context"

	"github.com/storefront-go/cart-controller/internal/domain/entity"
)

// CartManager is the single remote entry point the controller talks to.
// The method set is the closed set of actions the controller can issue;
// wire-level action tags exist only inside transport adapters.
type CartManager interface {
	// FetchCart reads the authoritative snapshot for a user. A cart with no
	// lines (or no cart at all) is a valid empty result, not an error.
	FetchCart(ctx context.Context, userID string) (*entity.CartSnapshot, error)

	// UpdateQuantity sets a line's quantity to quantity (>= 1) and returns
	// the refreshed snapshot.
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*entity.CartSnapshot, error)

	// RemoveItem removes a line and returns the refreshed snapshot.
	RemoveItem(ctx context.Context, userID, productID string) (*entity.CartSnapshot, error)
}

// PendingOp captures everything a single in-flight mutation needs for
// reconciliation: which line it touched, what it asked the remote to do,
// and the line's exact pre-mutation state. Each controller operation holds
// its own PendingOp, so a failure can only ever roll back with the capture
// taken by that same operation.
type PendingOp struct {
	ProductID string
	Action    Action

	// PrevLine is nil when the line did not exist before the mutation.
	PrevLine  *entity.CartLine
	PrevIndex int
}
