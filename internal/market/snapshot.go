package market

import (
	"time"

	"github.com/google/uuid"

	"github.com/kara-india/boliapp/internal/model"
)

// Snapshot is the serialized state the persistence layer stores: the full
// listing collection (newest-first) and the wallet balance. Each half is
// independently loadable.
type Snapshot struct {
	Listings []*model.Listing `json:"listings"`
	Wallet   model.Wallet     `json:"wallet"`
}

const seedBalance = 500_000

// SeedState returns the demo data the marketplace boots with whenever no
// stored state exists or the stored state cannot be decoded.
func SeedState() *Snapshot {
	now := time.Now()
	return &Snapshot{
		Listings: []*model.Listing{
			{
				ID:                 uuid.NewString(),
				Title:              "2BHK - Bandra West (Sea View)",
				Address:            "Tulsi Park, Bandra West, Mumbai",
				CTS:                "CTS-1023/3",
				SRO:                "SRO-Mumbai-I",
				City:               "Mumbai",
				BuyNowPrice:        25_000_000,
				BiddingEnabled:     true,
				MinBidIncrementPct: 1,
				Documents: []model.Document{
					{ID: uuid.NewString(), Name: "Sale Deed (2020)", Meta: "SRO: SRO-Mumbai-I | Doc#: 1023/2020", Certified: true, FileURL: "/sample-docs/sample-sale-deed.pdf"},
					{ID: uuid.NewString(), Name: "Encumbrance Certificate (EC)", Meta: "EC till 2025", Certified: false, FileURL: "/sample-docs/sample-ec.pdf"},
				},
				Seller:    model.Seller{Name: "Amit Sharma", ReraBroker: true},
				Bids:      []model.Bid{},
				Status:    model.ListingStatusActive,
				CreatedAt: now,
			},
			{
				ID:                 uuid.NewString(),
				Title:              "3BHK - Andheri East",
				Address:            "Ram Mandir Rd, Andheri East, Mumbai",
				CTS:                "CTS-2120/5",
				SRO:                "SRO-Mumbai-II",
				City:               "Mumbai",
				BuyNowPrice:        38_000_000,
				BiddingEnabled:     true,
				MinBidIncrementPct: 1,
				Documents: []model.Document{
					{ID: uuid.NewString(), Name: "Sale Deed (2018)", Meta: "SRO: SRO-Mumbai-II | Doc#: 2120/2018", Certified: true, FileURL: "/sample-docs/sample-sale-deed.pdf"},
					{ID: uuid.NewString(), Name: "Society NOC", Meta: "Issued: 2021-04-12", Certified: false, FileURL: "/sample-docs/sample-soc-noc.pdf"},
				},
				Seller:    model.Seller{Name: "Priya Kapur", ReraBroker: false},
				Bids:      []model.Bid{},
				Status:    model.ListingStatusActive,
				CreatedAt: now,
			},
			{
				ID:                 uuid.NewString(),
				Title:              "Studio - Lower Parel",
				Address:            "Senapati Bapat Marg, Lower Parel, Mumbai",
				CTS:                "CTS-883/1",
				SRO:                "SRO-Mumbai-III",
				City:               "Mumbai",
				BuyNowPrice:        12_500_000,
				BiddingEnabled:     false,
				MinBidIncrementPct: 1,
				Documents: []model.Document{
					{ID: uuid.NewString(), Name: "Sale Deed (2015)", Meta: "SRO: SRO-Mumbai-III | Doc#: 883/2015", Certified: true, FileURL: "/sample-docs/sample-sale-deed.pdf"},
				},
				Seller:    model.Seller{Name: "Ramesh & Co.", ReraBroker: true},
				Bids:      []model.Bid{},
				Status:    model.ListingStatusActive,
				CreatedAt: now,
			},
		},
		Wallet: model.Wallet{Balance: seedBalance},
	}
}

// Restore builds an engine from a snapshot. Listings are inserted oldest
// first so the registry's newest-first order matches the snapshot's.
func Restore(snap *Snapshot) *BiddingEngine {
	registry := NewListingRegistry()
	for i := len(snap.Listings) - 1; i >= 0; i-- {
		registry.Upsert(snap.Listings[i])
	}
	return NewBiddingEngine(registry, NewWalletLedger(snap.Wallet.Balance), NewSaleFactory())
}

// Export captures the engine's current state for persistence.
func (e *BiddingEngine) Export() *Snapshot {
	return &Snapshot{
		Listings: e.Listings(),
		Wallet:   model.Wallet{Balance: e.ledger.Balance()},
	}
}
