package commands

import (
	"context"

	"github.com/storekit/cart-service/internal/domain/cart"
	"github.com/storekit/cart-service/internal/domain/catalog"
	domainErrors "github.com/storekit/cart-service/internal/domain/errors"
)

type AddItemCommand struct {
	ProductID   int64
	VariationID int64
	Quantity    int
	// Attributes holds the raw posted "attribute_<slug>" fields.
	Attributes map[string]string
}

func (h *CartMutationHandler) AddItem(ctx context.Context, sess Session, cmd AddItemCommand) (*Envelope, error) {
	if cmd.Quantity <= 0 {
		cmd.Quantity = 1
	}

	if err := h.prefilterProduct(ctx, cmd.ProductID); err != nil {
		return nil, err
	}

	return h.withCart(ctx, sess, func(c *cart.Cart) error {
		product, err := h.catalog.GetProductByID(ctx, cmd.ProductID)
		if err != nil {
			return err
		}

		if cmd.VariationID != 0 || product.IsVariable() || product.IsVariation() {
			return h.addVariable(ctx, c, cmd)
		}
		return h.addSimple(ctx, c, product, cmd.Quantity)
	})
}

func (h *CartMutationHandler) addSimple(ctx context.Context, c *cart.Cart, product *catalog.Product, quantity int) error {
	if err := h.hooks.ValidateAddToCart(ctx, product.ID, quantity, 0, nil); err != nil {
		return cart.Reject(err)
	}

	if product.ManagingStock() {
		inCart := c.QuantityFor(product.ID, 0)
		if !product.HasEnoughStock(inCart + quantity) {
			return &domainErrors.NotEnoughStockError{
				Available: product.StockQuantity,
				InCart:    inCart,
			}
		}
	}

	c.Add(product.ID, 0, quantity, product.Price, nil)
	h.hooks.NotifyAddedToCart(ctx, product.ID, quantity)

	return nil
}

func (h *CartMutationHandler) addVariable(ctx context.Context, c *cart.Cart, cmd AddItemCommand) error {
	res, err := catalog.ResolveVariation(ctx, h.catalog, cmd.ProductID, cmd.VariationID, cmd.Attributes)
	if err != nil {
		return err
	}

	if err := h.hooks.ValidateAddToCart(ctx, res.ProductID, cmd.Quantity, res.VariationID, res.Attributes); err != nil {
		return cart.Reject(err)
	}

	variation, err := h.catalog.GetVariationByID(ctx, res.VariationID)
	if err != nil {
		return err
	}

	if variation.ManageStock {
		inCart := c.QuantityFor(res.ProductID, res.VariationID)
		if !variation.HasEnoughStock(inCart + cmd.Quantity) {
			return &domainErrors.NotEnoughStockError{
				Available: variation.StockQuantity,
				InCart:    inCart,
			}
		}
	}

	c.Add(res.ProductID, res.VariationID, cmd.Quantity, variation.Price, res.Attributes)
	h.hooks.NotifyAddedToCart(ctx, res.ProductID, cmd.Quantity)

	return nil
}

// prefilterProduct rejects ids the bloom filter is certain do not exist,
// saving a catalog round trip. Filter errors are logged and ignored; an
// unseeded filter answers nothing.
func (h *CartMutationHandler) prefilterProduct(ctx context.Context, productID int64) error {
	if h.filter == nil {
		return nil
	}

	seeded, err := h.filter.Seeded(ctx)
	if err != nil {
		h.log.Error("Failed to check product filter seed state", "error", err)
		return nil
	}
	if !seeded {
		return nil
	}

	mightContain, err := h.filter.MightContain(ctx, productID)
	if err != nil {
		h.log.Error("Failed to consult product filter", "product_id", productID, "error", err)
		return nil
	}
	if !mightContain {
		return domainErrors.ErrProductNotFound
	}
	return nil
}
