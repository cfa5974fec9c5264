package httpserver

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/service/checkout"
	"storefront/internal/store"
)

type handlers struct {
	deps   Deps
	logger *zap.Logger
}

func (h *handlers) home(c *gin.Context) {
	featured := c.DefaultQuery("featured", catalog.TabAll)
	arrivals := c.DefaultQuery("arrivals", catalog.TabAll)
	if !slices.Contains(catalog.FeaturedTabs, featured) {
		respondError(c, http.StatusBadRequest, "invalid_tab", "unknown featured tab "+strconv.Quote(featured))
		return
	}
	if !slices.Contains(catalog.ArrivalTabs, arrivals) {
		respondError(c, http.StatusBadRequest, "invalid_tab", "unknown arrivals tab "+strconv.Quote(arrivals))
		return
	}

	snap := h.deps.Catalog.Current(c.Request.Context())
	c.JSON(http.StatusOK, homeResponse{
		Source:     snap.Source(),
		Degraded:   snap.Degraded(),
		Categories: snap.Categories,
		BestDeals:  toProductViews(catalog.BestDeals(snap.Products)),
		Featured: tabRow{
			Tabs:     catalog.FeaturedTabs,
			Active:   featured,
			Products: toProductViews(catalog.ByCategoryTab(snap.Products, featured, nil, catalog.TabLimit)),
		},
		NewArrivals: tabRow{
			Tabs:     catalog.ArrivalTabs,
			Active:   arrivals,
			Products: toProductViews(catalog.ByCategoryTab(snap.Products, arrivals, catalog.ArrivalCategories(), catalog.TabLimit)),
		},
	})
}

func (h *handlers) search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	limit, err := queryInt(c, "limit")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_offset", "offset must be an integer")
		return
	}

	snap := h.deps.Catalog.Current(c.Request.Context())
	c.JSON(http.StatusOK, buildProductList(q, catalog.Search(snap.Products, q), limit, offset))
}

func (h *handlers) product(c *gin.Context) {
	snap := h.deps.Catalog.Current(c.Request.Context())
	p, err := catalog.BySlug(snap.Products, c.Param("slug"))
	if err != nil {
		respondError(c, http.StatusNotFound, "not_found", "product not found")
		return
	}

	c.JSON(http.StatusOK, productResponse{
		Product: toProductView(p),
		Related: toProductViews(catalog.Related(snap.Products, p, catalog.RelatedLimit)),
	})
}

func (h *handlers) state(c *gin.Context) {
	s := storeFrom(c)
	c.JSON(http.StatusOK, toStateResponse(s.Scope(), s.Status(), s.State()))
}

func (h *handlers) addToCart(c *gin.Context) {
	p, ok := bindProduct(c)
	if !ok {
		return
	}
	h.dispatch(c, store.AddToCart{Product: p})
}

type quantityRequest struct {
	Qty *int `json:"qty"`
}

func (h *handlers) updateQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Qty == nil {
		respondFieldErrors(c, http.StatusBadRequest, map[string]string{"qty": "is required"})
		return
	}
	h.dispatch(c, store.UpdateQuantity{ProductID: c.Param("id"), Quantity: *req.Qty})
}

func (h *handlers) removeFromCart(c *gin.Context) {
	h.dispatch(c, store.RemoveFromCart{ProductID: c.Param("id")})
}

func (h *handlers) clearCart(c *gin.Context) {
	h.dispatch(c, store.ClearCart{})
}

func (h *handlers) toggleWishlist(c *gin.Context) {
	p, ok := bindProduct(c)
	if !ok {
		return
	}
	h.dispatch(c, store.ToggleWishlist{Product: p})
}

type checkoutResponse struct {
	Receipt checkout.Receipt `json:"receipt"`
	State   stateResponse    `json:"state"`
}

func (h *handlers) checkout(c *gin.Context) {
	var form checkout.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	s := storeFrom(c)
	receipt, err := h.deps.Checkout.PlaceOrder(c.Request.Context(), s, form)
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		respondFieldErrors(c, http.StatusBadRequest, verr.Fields())
		return
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(c, http.StatusConflict, "empty_cart", "cart is empty")
		return
	case err != nil:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal_error", "an internal error occurred")
		return
	}

	c.JSON(http.StatusCreated, checkoutResponse{
		Receipt: receipt,
		State:   toStateResponse(s.Scope(), s.Status(), s.State()),
	})
}

// dispatch applies action to the session's state. A failed write-through is
// already logged by the store and does not fail the request.
func (h *handlers) dispatch(c *gin.Context, action store.Action) {
	s := storeFrom(c)
	state, err := s.Dispatch(c.Request.Context(), action)
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(http.StatusOK, toStateResponse(s.Scope(), s.Status(), state))
}

func bindProduct(c *gin.Context) (domain.Product, bool) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return domain.Product{}, false
	}

	fields := map[string]string{}
	if strings.TrimSpace(p.ID) == "" {
		fields["id"] = "is required"
	}
	if p.Price.IsNegative() {
		fields["price"] = "must not be negative"
	}
	if len(fields) > 0 {
		respondFieldErrors(c, http.StatusBadRequest, fields)
		return domain.Product{}, false
	}
	return p, true
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
