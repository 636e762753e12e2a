package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/storefront-go/cart-controller/internal/domain/entity"
	"github.com/storefront-go/cart-controller/internal/platform/logger"
	"github.com/storefront-go/cart-controller/internal/remote"
)

// CheckoutPath is the fixed destination handed to the Navigator.
const CheckoutPath = "/checkout"

const (
	// MsgLoadFailed is the user-facing message for a failed cart read.
	MsgLoadFailed = "Failed to load cart. Please try again."
	// MsgUpdateFailed is the user-facing message for a failed mutation.
	MsgUpdateFailed = "Failed to update quantity. Please try again."
)

var (
	ErrLoadFailed     = errors.New("cart load failed")
	ErrMutationFailed = errors.New("cart mutation failed")
	ErrEmptyCart      = errors.New("cart is empty")
)

// Navigator performs the actual page transition. Injected collaborator.
type Navigator interface {
	NavigateTo(path string)
}

// State is the presentation-facing view of the controller. Snapshot is a
// point-in-time copy; the presentation layer must not mutate it.
type State struct {
	LoadState    entity.LoadState
	Snapshot     *entity.CartSnapshot
	ErrorMessage string
}

// Controller owns the local mirror of the cart and every transition on it:
// load, optimistic mutation, reconciliation, checkout gating. All writes to
// the state cell happen under one lock; remote calls happen outside it, so
// operations on different products may be in flight concurrently.
type Controller struct {
	manager  remote.CartManager
	nav      Navigator
	log      logger.Logger
	onChange func(State)

	mu        sync.Mutex
	userID    string
	loadState entity.LoadState
	snapshot  *entity.CartSnapshot
	errMsg    string
}

type Option func(*Controller)

// WithOnChange registers a callback fired synchronously after every state
// transition, outside the state lock, with the post-transition state.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

func New(manager remote.CartManager, nav Navigator, log logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		manager:   manager,
		nav:       nav,
		log:       log,
		loadState: entity.LoadStateLoading,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current observable state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	return State{
		LoadState:    c.loadState,
		Snapshot:     c.snapshot,
		ErrorMessage: c.errMsg,
	}
}

func (c *Controller) notify(st State) {
	if c.onChange != nil {
		c.onChange(st)
	}
}

// Load fetches the authoritative snapshot for userID. One read, no automatic
// retry: a failure stays Failed until Load is invoked again.
func (c *Controller) Load(ctx context.Context, userID string) error {
	c.mu.Lock()
	c.userID = userID
	c.loadState = entity.LoadStateLoading
	c.snapshot = nil
	c.errMsg = ""
	st := c.stateLocked()
	c.mu.Unlock()
	c.notify(st)

	snap, err := c.manager.FetchCart(ctx, userID)

	c.mu.Lock()
	if err != nil {
		c.loadState = entity.LoadStateFailed
		c.errMsg = MsgLoadFailed
		st = c.stateLocked()
		c.mu.Unlock()
		c.notify(st)
		c.log.Errorf("failed to load cart for user %s: %v", userID, err)
		return fmt.Errorf("load cart for user %s: %w", userID, ErrLoadFailed)
	}

	if snap == nil || snap.IsEmpty() {
		c.loadState = entity.LoadStateEmpty
		c.snapshot = nil
	} else {
		c.loadState = entity.LoadStateLoaded
		c.snapshot = snap
	}
	st = c.stateLocked()
	c.mu.Unlock()
	c.notify(st)

	c.log.Debugf("cart loaded for user %s: state=%s", userID, st.LoadState)
	return nil
}

// IncreaseQuantity bumps productID's quantity by one.
func (c *Controller) IncreaseQuantity(ctx context.Context, productID string) error {
	c.mu.Lock()
	line, ok := c.currentLineLocked(productID)
	c.mu.Unlock()
	if !ok {
		c.log.Warnf("increase requested for product %s not in cart", productID)
		return nil
	}
	return c.SetQuantity(ctx, productID, line.Quantity+1)
}

// DecreaseQuantity lowers productID's quantity by one; at quantity 1 the
// line is removed instead.
func (c *Controller) DecreaseQuantity(ctx context.Context, productID string) error {
	c.mu.Lock()
	line, ok := c.currentLineLocked(productID)
	c.mu.Unlock()
	if !ok {
		c.log.Warnf("decrease requested for product %s not in cart", productID)
		return nil
	}
	return c.SetQuantity(ctx, productID, line.Quantity-1)
}

// SetQuantity applies the mutation optimistically, then issues exactly one
// remote call: update for quantity >= 1, remove otherwise. The quantity
// never goes negative locally or on the wire.
func (c *Controller) SetQuantity(ctx context.Context, productID string, quantity int) error {
	op, userID, ok := c.applyOptimistic(productID, quantity)
	if !ok {
		return nil
	}

	var err error
	switch op.Action {
	case remote.ActionUpdate:
		_, err = c.manager.UpdateQuantity(ctx, userID, productID, quantity)
	case remote.ActionRemove:
		_, err = c.manager.RemoveItem(ctx, userID, productID)
	}
	return c.reconcile(op, err)
}

// RemoveItem drops the line optimistically and issues a remote remove.
func (c *Controller) RemoveItem(ctx context.Context, productID string) error {
	op, userID, ok := c.applyOptimistic(productID, 0)
	if !ok {
		return nil
	}

	_, err := c.manager.RemoveItem(ctx, userID, productID)
	return c.reconcile(op, err)
}

// ProceedToCheckout delegates navigation to the fixed checkout destination.
// It is gated on a non-empty cart and never touches the remote service.
func (c *Controller) ProceedToCheckout() error {
	c.mu.Lock()
	empty := c.snapshot == nil || c.snapshot.IsEmpty()
	c.mu.Unlock()
	if empty {
		return ErrEmptyCart
	}
	c.nav.NavigateTo(CheckoutPath)
	return nil
}

func (c *Controller) currentLineLocked(productID string) (entity.CartLine, bool) {
	if c.snapshot == nil {
		return entity.CartLine{}, false
	}
	return c.snapshot.Line(productID)
}

// applyOptimistic mutates the local snapshot under the lock and returns the
// rollback capture for this specific operation. A missing line is a
// programmer error and degrades to a no-op rather than a user-visible
// failure.
func (c *Controller) applyOptimistic(productID string, quantity int) (remote.PendingOp, string, bool) {
	c.mu.Lock()
	if c.snapshot == nil {
		c.mu.Unlock()
		c.log.Warnf("mutation requested for product %s with no cart loaded", productID)
		return remote.PendingOp{}, "", false
	}
	line, ok := c.snapshot.Line(productID)
	if !ok {
		c.mu.Unlock()
		c.log.Warnf("mutation requested for product %s not in cart", productID)
		return remote.PendingOp{}, "", false
	}

	prev := line
	op := remote.PendingOp{
		ProductID: productID,
		PrevLine:  &prev,
		PrevIndex: c.snapshot.LineIndex(productID),
	}

	if quantity >= 1 {
		op.Action = remote.ActionUpdate
		next, err := c.snapshot.WithLineQuantity(productID, quantity)
		if err != nil {
			c.mu.Unlock()
			return remote.PendingOp{}, "", false
		}
		c.snapshot = next
	} else {
		op.Action = remote.ActionRemove
		c.snapshot = c.snapshot.WithoutLine(productID)
	}
	c.syncLoadStateLocked()
	c.errMsg = ""
	userID := c.userID
	st := c.stateLocked()
	c.mu.Unlock()
	c.notify(st)

	return op, userID, true
}

// reconcile commits or rolls back exactly one operation. On failure only the
// affected line is restored into the current snapshot, so concurrent
// operations on other products are never disturbed.
func (c *Controller) reconcile(op remote.PendingOp, callErr error) error {
	c.mu.Lock()
	if callErr == nil {
		// Optimistic state is the displayed truth going forward.
		c.errMsg = ""
		st := c.stateLocked()
		c.mu.Unlock()
		c.notify(st)
		return nil
	}

	if c.snapshot != nil && op.PrevLine != nil {
		c.snapshot = c.snapshot.WithLineRestored(*op.PrevLine, op.PrevIndex)
		c.syncLoadStateLocked()
	}
	c.errMsg = MsgUpdateFailed
	st := c.stateLocked()
	c.mu.Unlock()
	c.notify(st)

	c.log.Errorf("cart mutation %q failed for product %s: %v", op.Action, op.ProductID, callErr)
	return fmt.Errorf("mutate cart line %s: %w", op.ProductID, ErrMutationFailed)
}

// syncLoadStateLocked keeps Loaded/Empty in step with the snapshot after an
// optimistic mutation or a rollback.
func (c *Controller) syncLoadStateLocked() {
	if c.snapshot == nil {
		return
	}
	if c.snapshot.IsEmpty() {
		c.loadState = entity.LoadStateEmpty
	} else {
		c.loadState = entity.LoadStateLoaded
	}
}
