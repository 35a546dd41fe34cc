package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/storekit/cart-service/internal/application/commands"
	"github.com/storekit/cart-service/internal/domain/cart"
	"github.com/storekit/cart-service/internal/domain/catalog"
	domainErrors "github.com/storekit/cart-service/internal/domain/errors"
	"github.com/storekit/cart-service/internal/infrastructure/http/response"
	"github.com/storekit/cart-service/internal/infrastructure/monitoring"
	"github.com/storekit/cart-service/internal/pkg/logger"
)

const (
	sessionCookieName = "cart_session"
	hashCookieName    = "cart_fragments_hash"
	userIDHeader      = "X-User-ID"
)

type CartHandler struct {
	mutations *commands.CartMutationHandler
	log       *logger.Logger
}

func NewCartHandler(mutations *commands.CartMutationHandler, log *logger.Logger) *CartHandler {
	return &CartHandler{
		mutations: mutations,
		log:       log,
	}
}

func (h *CartHandler) HandleAddToCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		sess := h.session(w, r)

		productID := parseID(r.FormValue("product_id"))
		if productID == 0 {
			response.WriteError(w, http.StatusBadRequest, "product_id is required")
			return
		}

		cmd := commands.AddItemCommand{
			ProductID:   productID,
			VariationID: parseID(r.FormValue("variation_id")),
			Quantity:    parseQuantity(r.FormValue("quantity"), 1),
			Attributes:  attributeFields(r),
		}

		metrics := monitoring.NewCartMutationMetrics("add_item")
		metrics.RecordAttempt()

		envelope, err := h.mutations.AddItem(r.Context(), sess, cmd)
		if err != nil {
			h.log.Warn("Add to cart failed",
				"session_id", sess.ID,
				"product_id", cmd.ProductID,
				"variation_id", cmd.VariationID,
				"error", err.Error(),
			)
			metrics.RecordFailure(failureReason(err))
			response.WriteDomainError(w, err)
			return
		}

		metrics.RecordSuccess(cartCount(envelope))
		h.writeEnvelope(w, envelope)
	}
}

func (h *CartHandler) HandleRemoveFromCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		sess := h.session(w, r)
		itemKey := strings.TrimSpace(r.FormValue("item_key"))

		metrics := monitoring.NewCartMutationMetrics("remove_item")
		metrics.RecordAttempt()

		envelope, err := h.mutations.RemoveItem(r.Context(), sess, itemKey)
		if err != nil {
			metrics.RecordFailure(failureReason(err))
			response.WriteDomainError(w, err)
			return
		}

		metrics.RecordSuccess(cartCount(envelope))
		h.writeEnvelope(w, envelope)
	}
}

func (h *CartHandler) HandleSetQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		sess := h.session(w, r)
		itemKey := strings.TrimSpace(r.FormValue("item_key"))
		quantity := parseQuantity(r.FormValue("quantity"), 0)

		metrics := monitoring.NewCartMutationMetrics("set_quantity")
		metrics.RecordAttempt()

		envelope, err := h.mutations.SetQuantity(r.Context(), sess, itemKey, quantity)
		if err != nil {
			metrics.RecordFailure(failureReason(err))
			response.WriteDomainError(w, err)
			return
		}

		metrics.RecordSuccess(cartCount(envelope))
		h.writeEnvelope(w, envelope)
	}
}

func (h *CartHandler) HandleApplyCoupon() http.HandlerFunc {
	return h.couponHandler("apply_coupon", h.mutations.ApplyCoupon)
}

func (h *CartHandler) HandleRemoveCoupon() http.HandlerFunc {
	return h.couponHandler("remove_coupon", h.mutations.RemoveCoupon)
}

func (h *CartHandler) couponHandler(
	operation string,
	mutate func(ctx context.Context, sess commands.Session, code string) (*commands.Envelope, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		sess := h.session(w, r)
		code := strings.TrimSpace(r.FormValue("coupon_code"))

		metrics := monitoring.NewCartMutationMetrics(operation)
		metrics.RecordAttempt()

		envelope, err := mutate(r.Context(), sess, code)
		if err != nil {
			metrics.RecordFailure(failureReason(err))
			response.WriteDomainError(w, err)
			return
		}

		metrics.RecordSuccess(cartCount(envelope))
		h.writeEnvelope(w, envelope)
	}
}

func (h *CartHandler) HandleFragments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := h.session(w, r)

		envelope, err := h.mutations.Fragments(r.Context(), sess)
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}

		h.writeEnvelope(w, envelope)
	}
}

func (h *CartHandler) writeEnvelope(w http.ResponseWriter, envelope *commands.Envelope) {
	http.SetCookie(w, &http.Cookie{
		Name:  hashCookieName,
		Value: envelope.Hash,
		Path:  "/",
	})
	response.WriteSuccess(w, envelope)
}

// session reads the session cookie, issuing a fresh id when the request
// carries none, and resolves the user identity (0 = anonymous).
func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) commands.Session {
	var sessionID string
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		sessionID = cookie.Value
	} else {
		sessionID = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
		})
	}

	var userID int64
	if raw := r.Header.Get(userIDHeader); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			userID = parsed
		}
	}

	return commands.Session{ID: sessionID, UserID: userID}
}

// attributeFields collects the dynamic attribute_<slug> selection fields
// from the posted form or query string.
func attributeFields(r *http.Request) map[string]string {
	if err := r.ParseForm(); err != nil {
		return nil
	}

	var attributes map[string]string
	for field, values := range r.Form {
		if !strings.HasPrefix(field, catalog.AttributeFieldPrefix) || len(values) == 0 {
			continue
		}
		if attributes == nil {
			attributes = make(map[string]string)
		}
		attributes[field] = values[0]
	}
	return attributes
}

func cartCount(envelope *commands.Envelope) int {
	if count, ok := envelope.Fragments.Data["cart_count"].(int); ok {
		return count
	}
	return 0
}

func parseID(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// parseQuantity clamps a signed value to its absolute value, so "-5"
// reads as 5 rather than as a removal signal.
func parseQuantity(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	quantity, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if quantity < 0 {
		return -quantity
	}
	return quantity
}

func failureReason(err error) string {
	var stock *domainErrors.NotEnoughStockError
	if errors.As(err, &stock) {
		return "not_enough_stock"
	}
	var missing *catalog.MissingAttributesError
	if errors.As(err, &missing) {
		return "missing_attributes"
	}

	switch {
	case errors.Is(err, catalog.ErrChooseOptions):
		return "no_variation"
	case errors.Is(err, domainErrors.ErrProductNotFound), errors.Is(err, domainErrors.ErrVariationNotFound):
		return "product_not_found"
	case errors.Is(err, domainErrors.ErrCartItemNotFound):
		return "item_not_found"
	case errors.Is(err, domainErrors.ErrItemKeyRequired):
		return "missing_field"
	case errors.Is(err, domainErrors.ErrCouponNotApplied), errors.Is(err, domainErrors.ErrCouponNotRemoved):
		return "coupon_rejected"
	case errors.Is(err, domainErrors.ErrCartLocked):
		return "cart_locked"
	}

	var rejected *cart.RejectedError
	if errors.As(err, &rejected) {
		return "rejected"
	}
	return "internal"
}
