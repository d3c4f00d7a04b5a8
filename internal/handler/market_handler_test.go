package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kara-india/boliapp/internal/model"
	"github.com/kara-india/boliapp/internal/service"
)

type nopStore struct {
	mu       sync.Mutex
	listings []*model.Listing
	wallet   *model.Wallet
}

func (n *nopStore) SaveListings(_ context.Context, listings []*model.Listing) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listings = listings
	return nil
}

func (n *nopStore) LoadListings(_ context.Context) ([]*model.Listing, error) {
	return nil, errors.New("empty")
}

func (n *nopStore) SaveWallet(_ context.Context, wallet model.Wallet) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.wallet = &wallet
	return nil
}

func (n *nopStore) LoadWallet(_ context.Context) (model.Wallet, error) {
	return model.Wallet{}, errors.New("empty")
}

// testApp wires the market and wallet routes behind a stub identity
// middleware so handlers see the same locals the JWT middleware sets.
func testApp(t *testing.T) (*fiber.App, *service.MarketService) {
	t.Helper()

	svc := service.NewMarketService(context.Background(), &nopStore{}, nil)
	marketHandler := NewMarketHandler(svc)
	walletHandler := NewWalletHandler(svc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "user-test")
		c.Locals("username", "tester")
		c.Locals("rera_broker", true)
		return c.Next()
	})

	api := app.Group("/api/v1")
	api.Get("/listings", marketHandler.List)
	api.Get("/listings/:id", marketHandler.GetByID)
	api.Post("/listings", marketHandler.Create)
	api.Post("/listings/:id/bids", marketHandler.PlaceBid)
	api.Post("/listings/:id/buy", marketHandler.BuyNow)
	api.Post("/listings/:id/bids/:bidID/accept", marketHandler.AcceptBid)
	api.Get("/wallet", walletHandler.Balance)
	api.Post("/wallet/topup", walletHandler.TopUp)

	return app, svc
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		payload = nil
	}
	return resp, payload
}

func TestListListings(t *testing.T) {
	app, _ := testApp(t)

	resp, payload := doJSON(t, app, "GET", "/api/v1/listings", nil)
	assert.Equal(t, 200, resp.StatusCode)

	var total int
	require.NoError(t, json.Unmarshal(payload["total"], &total))
	assert.Equal(t, 3, total)
}

func TestGetListing_NotFound(t *testing.T) {
	app, _ := testApp(t)

	resp, payload := doJSON(t, app, "GET", "/api/v1/listings/no-such-id", nil)
	assert.Equal(t, 404, resp.StatusCode)
	assert.JSONEq(t, `"listing not found"`, string(payload["error"]))
}

func TestCreateListing(t *testing.T) {
	app, svc := testApp(t)

	resp, _ := doJSON(t, app, "POST", "/api/v1/listings", model.CreateListingRequest{
		Title:       "2BHK in Powai",
		Address:     "Hiranandani Gardens",
		BuyNowPrice: 18_000_000,
	})
	assert.Equal(t, 201, resp.StatusCode)

	listings := svc.Listings()
	require.Len(t, listings, 4)
	assert.Equal(t, "2BHK in Powai", listings[0].Title)
	assert.Equal(t, "tester", listings[0].Seller.Name)
	assert.True(t, listings[0].Seller.ReraBroker)
}

func TestCreateListing_MissingTitle(t *testing.T) {
	app, _ := testApp(t)

	resp, _ := doJSON(t, app, "POST", "/api/v1/listings", model.CreateListingRequest{
		BuyNowPrice: 18_000_000,
	})
	assert.Equal(t, 400, resp.StatusCode)
}

func TestPlaceBid(t *testing.T) {
	app, svc := testApp(t)
	listingID := svc.Listings()[0].ID

	resp, _ := doJSON(t, app, "POST", "/api/v1/listings/"+listingID+"/bids", model.PlaceBidRequest{Amount: 20_000_000})
	assert.Equal(t, 201, resp.StatusCode)

	listing, err := svc.Listing(listingID)
	require.NoError(t, err)
	require.Len(t, listing.Bids, 1)
	assert.Equal(t, "tester", listing.Bids[0].Bidder)
	assert.Equal(t, int64(400_000), listing.Bids[0].EMD)
}

func TestPlaceBid_AtBuyNowRejected(t *testing.T) {
	app, svc := testApp(t)
	listingID := svc.Listings()[0].ID

	resp, _ := doJSON(t, app, "POST", "/api/v1/listings/"+listingID+"/bids", model.PlaceBidRequest{Amount: 25_000_000})
	assert.Equal(t, 400, resp.StatusCode)
}

func TestPlaceBid_BiddingDisabled(t *testing.T) {
	app, svc := testApp(t)

	var disabledID string
	for _, l := range svc.Listings() {
		if !l.BiddingEnabled {
			disabledID = l.ID
		}
	}
	require.NotEmpty(t, disabledID)

	resp, _ := doJSON(t, app, "POST", "/api/v1/listings/"+disabledID+"/bids", model.PlaceBidRequest{Amount: 10_000_000})
	assert.Equal(t, 409, resp.StatusCode)
}

func TestBuyNow_ThenActionsOnSoldListing(t *testing.T) {
	app, svc := testApp(t)
	listingID := svc.Listings()[0].ID

	resp, payload := doJSON(t, app, "POST", "/api/v1/listings/"+listingID+"/buy", nil)
	assert.Equal(t, 200, resp.StatusCode)

	var price int64
	require.NoError(t, json.Unmarshal(payload["price"], &price))
	assert.Equal(t, int64(25_000_000), price)

	resp, _ = doJSON(t, app, "POST", "/api/v1/listings/"+listingID+"/buy", nil)
	assert.Equal(t, 409, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/v1/listings/"+listingID+"/bids", model.PlaceBidRequest{Amount: 20_000_000})
	assert.Equal(t, 409, resp.StatusCode)
}

func TestAcceptBid(t *testing.T) {
	app, svc := testApp(t)
	listingID := svc.Listings()[0].ID

	_, err := svc.PlaceBid(context.Background(), listingID, "rahul", 20_000_000)
	require.NoError(t, err)

	listing, err := svc.Listing(listingID)
	require.NoError(t, err)
	bidID := listing.Bids[0].ID

	resp, payload := doJSON(t, app, "POST", "/api/v1/listings/"+listingID+"/bids/"+bidID+"/accept", nil)
	assert.Equal(t, 200, resp.StatusCode)

	var price int64
	require.NoError(t, json.Unmarshal(payload["price"], &price))
	assert.Equal(t, int64(20_000_000), price)
}

func TestAcceptBid_UnknownBid(t *testing.T) {
	app, svc := testApp(t)
	listingID := svc.Listings()[0].ID

	resp, _ := doJSON(t, app, "POST", "/api/v1/listings/"+listingID+"/bids/no-such-bid/accept", nil)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestWalletBalanceAndTopUp(t *testing.T) {
	app, _ := testApp(t)

	resp, payload := doJSON(t, app, "GET", "/api/v1/wallet", nil)
	assert.Equal(t, 200, resp.StatusCode)

	var balance int64
	require.NoError(t, json.Unmarshal(payload["balance"], &balance))
	assert.Equal(t, int64(500_000), balance)

	resp, payload = doJSON(t, app, "POST", "/api/v1/wallet/topup", model.TopUpRequest{Amount: 100_000})
	assert.Equal(t, 200, resp.StatusCode)
	require.NoError(t, json.Unmarshal(payload["balance"], &balance))
	assert.Equal(t, int64(600_000), balance)
}

func TestTopUp_InvalidAmount(t *testing.T) {
	app, _ := testApp(t)

	resp, _ := doJSON(t, app, "POST", "/api/v1/wallet/topup", model.TopUpRequest{Amount: -10})
	assert.Equal(t, 400, resp.StatusCode)
}

func TestInsufficientFunds(t *testing.T) {
	app, svc := testApp(t)

	// Second seed listing costs more than the wallet can cover outright.
	listingID := svc.Listings()[1].ID
	resp, payload := doJSON(t, app, "POST", "/api/v1/listings/"+listingID+"/buy", nil)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, string(payload["error"]), "insufficient")
}
