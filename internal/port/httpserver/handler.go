package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/storefront-go/cart-controller/internal/domain/entity"
	"github.com/storefront-go/cart-controller/internal/platform/logger"
	"github.com/storefront-go/cart-controller/internal/remote"
	"github.com/storefront-go/cart-controller/internal/repository"
)

// Handler serves the single cart-manager action endpoint the controller's
// HTTP adapter talks to. It is the local stand-in for the production cart
// service.
type Handler struct {
	store   repository.CartStore
	cartTTL time.Duration
	log     logger.Logger
}

func NewHandler(store repository.CartStore, cartTTL time.Duration, log logger.Logger) *Handler {
	return &Handler{
		store:   store,
		cartTTL: cartTTL,
		log:     log,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/api/cart", h.HandleCartAction)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func (h *Handler) HandleCartAction(w http.ResponseWriter, r *http.Request) {
	var req remote.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "user_id is required")
		return
	}

	switch req.Action {
	case remote.ActionGet:
		h.handleGet(r.Context(), w, req)
	case remote.ActionAdd:
		h.handleAdd(r.Context(), w, req)
	case remote.ActionUpdate:
		h.handleUpdate(r.Context(), w, req)
	case remote.ActionRemove:
		h.handleRemove(r.Context(), w, req)
	default:
		respondError(w, http.StatusBadRequest, "invalid_action", "unknown cart action")
	}
}

func (h *Handler) handleGet(ctx context.Context, w http.ResponseWriter, req remote.ActionRequest) {
	cart, err := h.store.GetByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondJSON(w, http.StatusOK, emptyCartResponse())
			return
		}
		h.log.Errorf("failed to get cart for user %s: %v", req.UserID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(cart))
}

func (h *Handler) handleAdd(ctx context.Context, w http.ResponseWriter, req remote.ActionRequest) {
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
		return
	}

	cart, err := h.store.GetByUserID(ctx, req.UserID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.log.Errorf("failed to get cart for user %s: %v", req.UserID, err)
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
			return
		}
		cart = repository.NewCart(uuid.NewString(), req.UserID)
	}

	line := entity.CartLine{
		ID:           uuid.NewString(),
		ProductID:    req.ProductID,
		ProductName:  req.ProductName,
		ProductImage: req.ProductImage,
		UnitPrice:    req.UnitPrice,
		Quantity:     req.Quantity,
	}
	if err := cart.AddLine(line); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_line", err.Error())
		return
	}
	h.saveAndRespond(ctx, w, cart)
}

func (h *Handler) handleUpdate(ctx context.Context, w http.ResponseWriter, req remote.ActionRequest) {
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	// Clients express "quantity zero" as a remove action, never as an update.
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
		return
	}

	cart, err := h.loadCart(ctx, w, req.UserID)
	if cart == nil || err != nil {
		return
	}
	if err := cart.SetLineQuantity(req.ProductID, req.Quantity); err != nil {
		if errors.Is(err, repository.ErrLineNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not in cart")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
		return
	}
	h.saveAndRespond(ctx, w, cart)
}

func (h *Handler) handleRemove(ctx context.Context, w http.ResponseWriter, req remote.ActionRequest) {
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	cart, err := h.loadCart(ctx, w, req.UserID)
	if cart == nil || err != nil {
		return
	}
	if err := cart.RemoveLine(req.ProductID); err != nil {
		respondError(w, http.StatusNotFound, "not_found", "product not in cart")
		return
	}
	h.saveAndRespond(ctx, w, cart)
}

// loadCart fetches the user's cart, writing the error response itself when
// there is nothing for the caller to work with.
func (h *Handler) loadCart(ctx context.Context, w http.ResponseWriter, userID string) (*repository.Cart, error) {
	cart, err := h.store.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "no cart for user")
			return nil, err
		}
		h.log.Errorf("failed to get cart for user %s: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return nil, err
	}
	return cart, nil
}

func (h *Handler) saveAndRespond(ctx context.Context, w http.ResponseWriter, cart *repository.Cart) {
	if err := h.store.Save(ctx, cart, h.cartTTL); err != nil {
		h.log.Errorf("failed to save cart for user %s: %v", cart.UserID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save cart")
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(cart))
}

// cartResponse always carries server-recomputed aggregates.
func cartResponse(cart *repository.Cart) remote.CartResponse {
	snap := entity.NewCartSnapshot(cart.ID, cart.UserID, cart.Items)
	return remote.CartResponse{
		Cart: &remote.CartMeta{
			ID:        cart.ID,
			UserID:    cart.UserID,
			CreatedAt: cart.CreatedAt,
			UpdatedAt: cart.UpdatedAt,
		},
		Items:     snap.Lines,
		Total:     snap.Total,
		ItemCount: snap.ItemCount,
	}
}

func emptyCartResponse() remote.CartResponse {
	return remote.CartResponse{
		Cart:  nil,
		Items: []entity.CartLine{},
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, remote.ErrorResponse{Error: message, Code: code})
}
