package httpserver

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/pricing"
	"storefront/internal/store"
)

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

func respondFieldErrors(c *gin.Context, status int, fields map[string]string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: errorBody{
		Code:    "validation_failed",
		Message: "one or more fields are invalid",
		Fields:  fields,
	}})
}

// productView is a product with the figures a product card shows.
type productView struct {
	domain.Product
	Href            string          `json:"href"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice"`
	StrikePrice     decimal.Decimal `json:"strikePrice"`
	InCart          bool            `json:"inCart,omitempty"`
	InWishlist      bool            `json:"inWishlist,omitempty"`
}

func toProductView(p domain.Product) productView {
	return productView{
		Product:         p,
		Href:            catalog.Href(p),
		DiscountedPrice: pricing.DiscountedPrice(p),
		StrikePrice:     pricing.StrikePrice(p),
	}
}

func toProductViews(products []domain.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, toProductView(p))
	}
	return out
}

type tabRow struct {
	Tabs     []string      `json:"tabs"`
	Active   string        `json:"active"`
	Products []productView `json:"products"`
}

type homeResponse struct {
	Source      catalog.Source    `json:"source"`
	Degraded    bool              `json:"degraded"`
	Categories  []domain.Category `json:"categories"`
	BestDeals   []productView     `json:"bestDeals"`
	Featured    tabRow            `json:"featured"`
	NewArrivals tabRow            `json:"newArrivals"`
}

type productResponse struct {
	Product productView   `json:"product"`
	Related []productView `json:"related"`
}

type productList struct {
	Query   string        `json:"query"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
	Count   int           `json:"count"`
	Total   int           `json:"total"`
	Results []productView `json:"results"`
}

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200
)

func buildProductList(query string, matches []domain.Product, limit, offset int) productList {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + limit
	if end > len(matches) {
		end = len(matches)
	}
	page := []domain.Product{}
	if offset < len(matches) {
		page = matches[offset:end]
	}

	return productList{
		Query:   query,
		Limit:   limit,
		Offset:  offset,
		Count:   len(page),
		Total:   len(matches),
		Results: toProductViews(page),
	}
}

type lineView struct {
	domain.CartLine
	Href      string          `json:"href"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type stateResponse struct {
	Session       string           `json:"session"`
	LoadStatus    store.LoadStatus `json:"loadStatus"`
	Cart          []lineView       `json:"cart"`
	Wishlist      []productView    `json:"wishlist"`
	Summary       pricing.Summary  `json:"summary"`
	CartCount     int              `json:"cartCount"`
	WishlistCount int              `json:"wishlistCount"`
}

func toStateResponse(session string, status store.LoadStatus, state domain.State) stateResponse {
	lines := make([]lineView, 0, len(state.Cart))
	for _, line := range state.Cart {
		lines = append(lines, lineView{
			CartLine:  line,
			Href:      catalog.Href(line.Product),
			LineTotal: line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}
	wishlist := toProductViews(state.Wishlist)
	for i := range wishlist {
		wishlist[i].InCart = state.InCart(wishlist[i].ID)
	}

	summary := pricing.Summarize(state.Cart)
	return stateResponse{
		Session:       session,
		LoadStatus:    status,
		Cart:          lines,
		Wishlist:      wishlist,
		Summary:       summary,
		CartCount:     summary.ItemCount,
		WishlistCount: len(state.Wishlist),
	}
}
