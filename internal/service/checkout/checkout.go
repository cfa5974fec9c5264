// Package checkout simulates placing an order: the shipping form is
// validated, the cart is summarized into a receipt and then cleared.
// Nothing about the order is stored.
package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logging"
	"storefront/internal/pricing"
	"storefront/internal/store"
)

// ErrEmptyCart is returned when an order is placed with nothing in the cart.
var ErrEmptyCart = errors.New("cart is empty")

// Payment methods accepted by the form.
const (
	PaymentCard   = "card"
	PaymentCash   = "cash"
	PaymentPayPal = "paypal"
)

// Form is the shipping and payment form.
type Form struct {
	FullName      string `json:"fullName" validate:"required,max=200"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,max=50"`
	Street        string `json:"street" validate:"required,max=200"`
	City          string `json:"city" validate:"required,max=100"`
	Zip           string `json:"zip" validate:"required,max=20"`
	Notes         string `json:"notes,omitempty" validate:"max=1000"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=card cash paypal"`
}

// Normalize trims surrounding whitespace so blank fields count as missing.
func (f Form) Normalize() Form {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Street = strings.TrimSpace(f.Street)
	f.City = strings.TrimSpace(f.City)
	f.Zip = strings.TrimSpace(f.Zip)
	f.Notes = strings.TrimSpace(f.Notes)
	f.PaymentMethod = strings.ToLower(strings.TrimSpace(f.PaymentMethod))
	return f
}

// Receipt describes a placed order.
type Receipt struct {
	Reference     uuid.UUID         `json:"reference"`
	Lines         []domain.CartLine `json:"lines"`
	Summary       pricing.Summary   `json:"summary"`
	PaymentMethod string            `json:"paymentMethod"`
	ShipTo        string            `json:"shipTo"`
	PlacedAt      time.Time         `json:"placedAt"`
}

// Cart is the part of a state container checkout needs.
type Cart interface {
	DispatchIf(ctx context.Context, action store.Action, cond func(domain.State) bool) (store.Transition, error)
}

type Service struct {
	logger *zap.Logger
	now    func() time.Time
}

func New(logger *zap.Logger) *Service {
	return &Service{logger: logging.OrNop(logger), now: time.Now}
}

// PlaceOrder validates form, then clears the cart and returns a receipt for
// what it held. An empty cart yields ErrEmptyCart and leaves the state alone.
// A failed write of the cleared state is logged; the order still counts.
func (s *Service) PlaceOrder(ctx context.Context, cart Cart, form Form) (Receipt, error) {
	form = form.Normalize()
	if err := form.Validate(); err != nil {
		return Receipt{}, err
	}

	// The receipt lists exactly the lines the clear removed.
	tr, err := cart.DispatchIf(ctx, store.ClearCart{}, func(st domain.State) bool {
		return len(st.Cart) > 0
	})
	if !tr.Applied {
		return Receipt{}, ErrEmptyCart
	}

	lines := tr.Before.Cart
	receipt := Receipt{
		Reference:     uuid.New(),
		Lines:         lines,
		Summary:       pricing.Summarize(lines),
		PaymentMethod: form.PaymentMethod,
		ShipTo:        strings.Join([]string{form.Street, form.City, form.Zip}, ", "),
		PlacedAt:      s.now().UTC(),
	}
	if err != nil {
		s.logger.Warn("cleared cart not persisted",
			zap.String("reference", receipt.Reference.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("order placed",
		zap.String("reference", receipt.Reference.String()),
		zap.Int("items", receipt.Summary.ItemCount),
		zap.String("total", receipt.Summary.Total.StringFixed(2)),
		zap.String("payment", receipt.PaymentMethod),
	)
	return receipt, nil
}
