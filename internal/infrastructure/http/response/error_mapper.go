package response

import (
	"errors"
	"net/http"

	"github.com/storekit/cart-service/internal/domain/cart"
	"github.com/storekit/cart-service/internal/domain/catalog"
	domainErrors "github.com/storekit/cart-service/internal/domain/errors"
)

// GenericFailureMessage is surfaced when a mutation failed without
// producing any notice of its own.
const GenericFailureMessage = "The operation could not be completed."

type ErrorMapping struct {
	HTTPStatus int
	Message    string
}

var errorMappings = map[error]ErrorMapping{
	domainErrors.ErrProductNotFound: {
		HTTPStatus: http.StatusNotFound,
		Message:    "Product not found",
	},
	domainErrors.ErrVariationNotFound: {
		HTTPStatus: http.StatusNotFound,
		Message:    "Variation not found",
	},
	domainErrors.ErrCartItemNotFound: {
		HTTPStatus: http.StatusNotFound,
		Message:    "Cart item not found",
	},
	domainErrors.ErrItemKeyRequired: {
		HTTPStatus: http.StatusBadRequest,
		Message:    GenericFailureMessage,
	},
	domainErrors.ErrCouponNotApplied: {
		HTTPStatus: http.StatusBadRequest,
		Message:    "Coupon could not be applied.",
	},
	domainErrors.ErrCouponNotRemoved: {
		HTTPStatus: http.StatusBadRequest,
		Message:    "Coupon could not be removed.",
	},
	catalog.ErrChooseOptions: {
		HTTPStatus: http.StatusBadRequest,
		Message:    "Please choose product options…",
	},
	domainErrors.ErrCartLocked: {
		HTTPStatus: http.StatusServiceUnavailable,
		Message:    "Your cart is being updated, please try again.",
	},
}

// MapDomainError turns a mutation failure into an HTTP status and the
// single message the failure envelope carries. Notice text is cleaned of
// markup and boilerplate on the way out.
func MapDomainError(err error) (int, string) {
	var rejected *cart.RejectedError
	if errors.As(err, &rejected) {
		message := cart.FirstMessage(rejected.Notices)
		status := http.StatusBadRequest
		if mapping, ok := lookupMapping(rejected.Unwrap()); ok {
			status = mapping.HTTPStatus
			if message == "" {
				message = mapping.Message
			}
		}
		if message == "" {
			message = GenericFailureMessage
		}
		return status, message
	}

	var stock *domainErrors.NotEnoughStockError
	if errors.As(err, &stock) {
		return http.StatusBadRequest, cart.CleanNoticeText(stock.Error())
	}

	var missing *catalog.MissingAttributesError
	if errors.As(err, &missing) {
		return http.StatusBadRequest, cart.CleanNoticeText(missing.Error())
	}

	if mapping, ok := lookupMapping(err); ok {
		return mapping.HTTPStatus, mapping.Message
	}

	return http.StatusInternalServerError, "Internal server error"
}

func lookupMapping(err error) (ErrorMapping, bool) {
	if err == nil {
		return ErrorMapping{}, false
	}
	for domainErr, mapping := range errorMappings {
		if errors.Is(err, domainErr) {
			return mapping, true
		}
	}
	return ErrorMapping{}, false
}

func WriteDomainError(w http.ResponseWriter, err error) {
	statusCode, message := MapDomainError(err)
	WriteError(w, statusCode, message)
}
