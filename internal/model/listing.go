package model

import "time"

const (
	ListingStatusActive = "active"
	ListingStatusSold   = "sold"
)

const (
	BidStatusOpen     = "open"
	BidStatusAccepted = "accepted"
	BidStatusRefunded = "refunded"
)

type Listing struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Address            string     `json:"address"`
	CTS                string     `json:"cts"`
	SRO                string     `json:"sro"`
	City               string     `json:"city"`
	BuyNowPrice        int64      `json:"buy_now_price"`
	BiddingEnabled     bool       `json:"bidding_enabled"`
	MinBidIncrementPct float64    `json:"min_bid_increment_pct"`
	Documents          []Document `json:"documents"`
	Seller             Seller     `json:"seller"`
	Bids               []Bid      `json:"bids"`
	Status             string     `json:"status"`
	Sale               *Sale      `json:"sale,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Seller is the identity a listing is offered under. Copied into the Sale
// at the moment the listing sells.
type Seller struct {
	Name       string `json:"name"`
	ReraBroker bool   `json:"rera_broker"`
}

// Document is title evidence attached to a listing. Immutable once attached.
type Document struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Meta      string `json:"meta,omitempty"`
	Certified bool   `json:"certified"`
	FileURL   string `json:"file_url,omitempty"`
}

type Bid struct {
	ID       string    `json:"id"`
	Bidder   string    `json:"bidder"`
	Amount   int64     `json:"amount"`
	EMD      int64     `json:"emd"`
	Status   string    `json:"status"`
	PlacedAt time.Time `json:"placed_at"`
}

// Sale is the terminal record of a listing. Immutable once created.
type Sale struct {
	ID                 string    `json:"id"`
	Price              int64     `json:"price"`
	Buyer              string    `json:"buyer"`
	Seller             Seller    `json:"seller"`
	CommissionPercent  float64   `json:"commission_percent"`
	PlatformCommission int64     `json:"platform_commission"`
	SoldAt             time.Time `json:"sold_at"`
}

// Clone returns a deep copy, safe to hand to serializers while the original
// keeps being mutated under the engine's locks.
func (l *Listing) Clone() *Listing {
	c := *l
	c.Documents = append([]Document(nil), l.Documents...)
	c.Bids = append([]Bid(nil), l.Bids...)
	if l.Sale != nil {
		sale := *l.Sale
		c.Sale = &sale
	}
	return &c
}

type CreateListingRequest struct {
	Title              string            `json:"title"`
	Address            string            `json:"address"`
	CTS                string            `json:"cts"`
	SRO                string            `json:"sro"`
	City               string            `json:"city"`
	BuyNowPrice        int64             `json:"buy_now_price"`
	BiddingEnabled     bool              `json:"bidding_enabled"`
	MinBidIncrementPct float64           `json:"min_bid_increment_pct"`
	Documents          []DocumentRequest `json:"documents"`
}

type DocumentRequest struct {
	Name      string `json:"name"`
	Meta      string `json:"meta"`
	Certified bool   `json:"certified"`
	FileURL   string `json:"file_url"`
}

type PlaceBidRequest struct {
	Amount int64 `json:"amount"`
}

type TopUpRequest struct {
	Amount int64 `json:"amount"`
}
