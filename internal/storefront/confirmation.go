package storefront

import (
	"context"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/query"
)

// WhatsAppNumber receives payment screenshots for mobile wallet orders.
const WhatsAppNumber = "03281325899"

// WhatsAppLink turns a local number into a wa.me link with the 92 country
// code.
func WhatsAppLink(number string) string {
	if strings.HasPrefix(number, "0") {
		number = "92" + number[1:]
	}
	return "https://wa.me/" + number
}

type Receipt struct {
	Order             domain.Order
	PaymentLabel      string
	NeedsPaymentProof bool
	ContactLink       string
}

type Confirmation struct {
	q *query.Layer
}

func NewConfirmation(q *query.Layer) *Confirmation {
	return &Confirmation{q: q}
}

func (c *Confirmation) Get(ctx context.Context, orderID int64) (Receipt, error) {
	o, err := c.q.Order(ctx, orderID)
	if err != nil {
		return Receipt{}, err
	}
	if o == nil {
		return Receipt{}, ErrOrderNotFound
	}
	return Receipt{
		Order:             *o,
		PaymentLabel:      o.PaymentMethod.Label(),
		NeedsPaymentProof: o.PaymentMethod.NeedsPaymentProof(),
		ContactLink:       WhatsAppLink(WhatsAppNumber),
	}, nil
}
