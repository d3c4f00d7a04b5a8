package market

import (
	"time"

	"github.com/google/uuid"

	"github.com/kara-india/boliapp/internal/model"
)

// SaleFactory builds Sale records for buy-now purchases and accepted bids.
// Pure construction: no side effects and no failure modes.
type SaleFactory struct {
	now   func() time.Time
	newID func() string
}

func NewSaleFactory() *SaleFactory {
	return &SaleFactory{
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

func (f *SaleFactory) New(price int64, buyer string, seller model.Seller) *model.Sale {
	return &model.Sale{
		ID:                 "sale-" + f.newID(),
		Price:              price,
		Buyer:              buyer,
		Seller:             seller,
		CommissionPercent:  CommissionPercent,
		PlatformCommission: PlatformCommission(price),
		SoldAt:             f.now(),
	}
}
