package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/kara-india/boliapp/internal/market"
	"github.com/kara-india/boliapp/internal/model"
	"github.com/kara-india/boliapp/internal/service"
)

type MarketHandler struct {
	marketSvc *service.MarketService
}

func NewMarketHandler(marketSvc *service.MarketService) *MarketHandler {
	return &MarketHandler{marketSvc: marketSvc}
}

// GET /api/v1/listings
func (h *MarketHandler) List(c *fiber.Ctx) error {
	listings := h.marketSvc.Listings()
	return c.JSON(fiber.Map{
		"listings": listings,
		"total":    len(listings),
	})
}

// GET /api/v1/listings/:id
func (h *MarketHandler) GetByID(c *fiber.Ctx) error {
	listing, err := h.marketSvc.Listing(c.Params("id"))
	if err != nil {
		return marketError(c, err)
	}
	return c.JSON(listing)
}

// POST /api/v1/listings
func (h *MarketHandler) Create(c *fiber.Ctx) error {
	username := c.Locals("username").(string)
	reraBroker, _ := c.Locals("rera_broker").(bool)

	var req model.CreateListingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	seller := model.Seller{Name: username, ReraBroker: reraBroker}
	listing, err := h.marketSvc.CreateListing(c.Context(), &req, seller)
	if err != nil {
		return marketError(c, err)
	}

	return c.Status(201).JSON(listing)
}

// POST /api/v1/listings/:id/bids
func (h *MarketHandler) PlaceBid(c *fiber.Ctx) error {
	username := c.Locals("username").(string)

	var req model.PlaceBidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Amount <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "amount must be greater than 0"})
	}

	bid, err := h.marketSvc.PlaceBid(c.Context(), c.Params("id"), username, req.Amount)
	if err != nil {
		return marketError(c, err)
	}

	return c.Status(201).JSON(bid)
}

// POST /api/v1/listings/:id/buy
func (h *MarketHandler) BuyNow(c *fiber.Ctx) error {
	username := c.Locals("username").(string)

	sale, err := h.marketSvc.BuyNow(c.Context(), c.Params("id"), username)
	if err != nil {
		return marketError(c, err)
	}

	return c.JSON(sale)
}

// POST /api/v1/listings/:id/bids/:bidID/accept
func (h *MarketHandler) AcceptBid(c *fiber.Ctx) error {
	sale, err := h.marketSvc.AcceptBid(c.Context(), c.Params("id"), c.Params("bidID"))
	if err != nil {
		return marketError(c, err)
	}

	return c.JSON(sale)
}

func marketError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, market.ErrListingNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "listing not found"})
	case errors.Is(err, market.ErrBidNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "bid not found"})
	case errors.Is(err, market.ErrAlreadySold):
		return c.Status(409).JSON(fiber.Map{"error": "listing is already sold"})
	case errors.Is(err, market.ErrBiddingDisabled):
		return c.Status(409).JSON(fiber.Map{"error": "bidding is not enabled for this listing"})
	case errors.Is(err, market.ErrAmountNotBelowBuyNow):
		return c.Status(400).JSON(fiber.Map{"error": "bid meets or exceeds buy-now, use the buy-now flow instead"})
	case errors.Is(err, market.ErrBidIncrementTooLow):
		return c.Status(400).JSON(fiber.Map{"error": "bid does not meet the minimum increment over the highest bid"})
	case errors.Is(err, market.ErrInsufficientFunds):
		return c.Status(400).JSON(fiber.Map{"error": "insufficient wallet balance for the earnest-money deposit"})
	case errors.Is(err, market.ErrInvalidAmount):
		return c.Status(400).JSON(fiber.Map{"error": "amount must be greater than 0"})
	case errors.Is(err, market.ErrTitleRequired):
		return c.Status(400).JSON(fiber.Map{"error": "listing title is required"})
	case errors.Is(err, market.ErrInvalidPrice):
		return c.Status(400).JSON(fiber.Map{"error": "buy-now price must be greater than 0"})
	default:
		log.Printf("[MARKET ERROR] %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "internal server error"})
	}
}
