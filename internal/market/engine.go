package market

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kara-india/boliapp/internal/model"
)

var (
	ErrListingNotFound      = errors.New("listing not found")
	ErrBidNotFound          = errors.New("bid not found")
	ErrAlreadySold          = errors.New("listing is already sold")
	ErrBiddingDisabled      = errors.New("bidding is not enabled for this listing")
	ErrAmountNotBelowBuyNow = errors.New("bid meets or exceeds the buy-now price")
	ErrBidIncrementTooLow   = errors.New("bid does not meet the minimum increment over the highest bid")
	ErrInsufficientFunds    = errors.New("insufficient wallet balance for the earnest-money deposit")
	ErrInvalidAmount        = errors.New("amount must be greater than 0")
	ErrTitleRequired        = errors.New("listing title is required")
	ErrInvalidPrice         = errors.New("buy-now price must be greater than 0")
)

// BiddingEngine enforces the listing sale contract: how bids are validated
// and held against the wallet, how a listing transitions from active to sold,
// and what a completed sale settles. It owns the registry and ledger it
// mutates; nothing else writes to them.
//
// Each operation is a read-validate-mutate-write sequence that must not
// interleave with another operation on the same listing, so the engine keeps
// a lock per listing id.
type BiddingEngine struct {
	registry *ListingRegistry
	ledger   *WalletLedger
	sales    *SaleFactory

	locks sync.Map // listing id → *sync.Mutex

	now   func() time.Time
	newID func() string
}

func NewBiddingEngine(registry *ListingRegistry, ledger *WalletLedger, sales *SaleFactory) *BiddingEngine {
	return &BiddingEngine{
		registry: registry,
		ledger:   ledger,
		sales:    sales,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

func (e *BiddingEngine) lockListing(id string) *sync.Mutex {
	mu, _ := e.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// PlaceBid validates and records a bid. The 2% EMD debit is the last gate:
// a bid that fails any check leaves both the wallet and the listing untouched.
func (e *BiddingEngine) PlaceBid(listingID, bidder string, amount int64) (*model.Bid, error) {
	mu := e.lockListing(listingID)
	mu.Lock()
	defer mu.Unlock()

	listing, err := e.registry.Get(listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status == model.ListingStatusSold {
		return nil, ErrAlreadySold
	}
	if !listing.BiddingEnabled {
		return nil, ErrBiddingDisabled
	}
	if amount >= listing.BuyNowPrice {
		// Callers should route these amounts to BuyNow instead.
		return nil, ErrAmountNotBelowBuyNow
	}
	if highest, ok := highestOpenBid(listing); ok && listing.MinBidIncrementPct > 0 {
		if amount < highest.Amount+MinimumIncrement(highest.Amount, listing.MinBidIncrementPct) {
			return nil, ErrBidIncrementTooLow
		}
	}

	emd := EarnestDeposit(amount)
	if err := e.ledger.Debit(emd); err != nil {
		return nil, err
	}

	bid := model.Bid{
		ID:       e.newID(),
		Bidder:   bidder,
		Amount:   amount,
		EMD:      emd,
		Status:   model.BidStatusOpen,
		PlacedAt: e.now(),
	}
	listing.Bids = append([]model.Bid{bid}, listing.Bids...)
	e.registry.Upsert(listing)

	return &bid, nil
}

// BuyNow executes an instant purchase at the listing's fixed price. The EMD
// for the full buy-now price is debited, every open bid is refunded, and the
// listing transitions to its terminal sold state.
func (e *BiddingEngine) BuyNow(listingID, buyer string) (*model.Sale, error) {
	mu := e.lockListing(listingID)
	mu.Lock()
	defer mu.Unlock()

	listing, err := e.registry.Get(listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status == model.ListingStatusSold {
		return nil, ErrAlreadySold
	}

	if err := e.ledger.Debit(EarnestDeposit(listing.BuyNowPrice)); err != nil {
		return nil, err
	}

	sale := e.sales.New(listing.BuyNowPrice, buyer, listing.Seller)
	e.settleBids(listing, "")
	listing.Status = model.ListingStatusSold
	listing.Sale = sale
	e.registry.Upsert(listing)

	return sale, nil
}

// AcceptBid closes the listing at the bid's amount. The accepted bid's EMD
// stays held and counts toward the purchase price at closing; all other open
// bids are refunded.
func (e *BiddingEngine) AcceptBid(listingID, bidID string) (*model.Sale, error) {
	mu := e.lockListing(listingID)
	mu.Lock()
	defer mu.Unlock()

	listing, err := e.registry.Get(listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status == model.ListingStatusSold {
		return nil, ErrAlreadySold
	}

	var accepted *model.Bid
	for i := range listing.Bids {
		if listing.Bids[i].ID == bidID {
			accepted = &listing.Bids[i]
			break
		}
	}
	if accepted == nil {
		return nil, ErrBidNotFound
	}

	sale := e.sales.New(accepted.Amount, accepted.Bidder, listing.Seller)
	accepted.Status = model.BidStatusAccepted
	e.settleBids(listing, accepted.ID)
	listing.Status = model.ListingStatusSold
	listing.Sale = sale
	e.registry.Upsert(listing)

	return sale, nil
}

// settleBids refunds the EMD of every still-open bid except acceptedID and
// marks those bids refunded. Runs inside the listing's critical section.
func (e *BiddingEngine) settleBids(listing *model.Listing, acceptedID string) {
	for i := range listing.Bids {
		b := &listing.Bids[i]
		if b.ID == acceptedID || b.Status != model.BidStatusOpen {
			continue
		}
		e.ledger.Credit(b.EMD)
		b.Status = model.BidStatusRefunded
	}
}

// TopUp credits the wallet and returns the new balance.
func (e *BiddingEngine) TopUp(amount int64) (int64, error) {
	if amount < 0 {
		return 0, ErrInvalidAmount
	}
	e.ledger.Credit(amount)
	return e.ledger.Balance(), nil
}

// CreateListing is a thin constructor: listings enter the registry active,
// with no bids and their documents attached once and for all.
func (e *BiddingEngine) CreateListing(req *model.CreateListingRequest, seller model.Seller) (*model.Listing, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if req.BuyNowPrice <= 0 {
		return nil, ErrInvalidPrice
	}

	docs := make([]model.Document, 0, len(req.Documents))
	for _, d := range req.Documents {
		docs = append(docs, model.Document{
			ID:        e.newID(),
			Name:      d.Name,
			Meta:      d.Meta,
			Certified: d.Certified,
			FileURL:   d.FileURL,
		})
	}

	city := strings.TrimSpace(req.City)
	if city == "" {
		city = "Mumbai"
	}

	listing := &model.Listing{
		ID:                 e.newID(),
		Title:              strings.TrimSpace(req.Title),
		Address:            req.Address,
		CTS:                req.CTS,
		SRO:                req.SRO,
		City:               city,
		BuyNowPrice:        req.BuyNowPrice,
		BiddingEnabled:     req.BiddingEnabled,
		MinBidIncrementPct: req.MinBidIncrementPct,
		Documents:          docs,
		Seller:             seller,
		Bids:               []model.Bid{},
		Status:             model.ListingStatusActive,
		CreatedAt:          e.now(),
	}
	e.registry.Upsert(listing)

	return listing.Clone(), nil
}

// Listing returns a copy of one listing, safe to serialize outside the
// engine's locks.
func (e *BiddingEngine) Listing(id string) (*model.Listing, error) {
	mu := e.lockListing(id)
	mu.Lock()
	defer mu.Unlock()

	listing, err := e.registry.Get(id)
	if err != nil {
		return nil, err
	}
	return listing.Clone(), nil
}

// Listings returns copies of all listings, newest-first.
func (e *BiddingEngine) Listings() []*model.Listing {
	all := e.registry.List()
	out := make([]*model.Listing, 0, len(all))
	for _, l := range all {
		mu := e.lockListing(l.ID)
		mu.Lock()
		out = append(out, l.Clone())
		mu.Unlock()
	}
	return out
}

func (e *BiddingEngine) Balance() int64 {
	return e.ledger.Balance()
}

func highestOpenBid(listing *model.Listing) (*model.Bid, bool) {
	var highest *model.Bid
	for i := range listing.Bids {
		b := &listing.Bids[i]
		if b.Status != model.BidStatusOpen {
			continue
		}
		if highest == nil || b.Amount > highest.Amount {
			highest = b
		}
	}
	return highest, highest != nil
}
