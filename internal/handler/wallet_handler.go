package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kara-india/boliapp/internal/model"
	"github.com/kara-india/boliapp/internal/service"
)

type WalletHandler struct {
	marketSvc *service.MarketService
}

func NewWalletHandler(marketSvc *service.MarketService) *WalletHandler {
	return &WalletHandler{marketSvc: marketSvc}
}

// GET /api/v1/wallet
func (h *WalletHandler) Balance(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"balance": h.marketSvc.Balance()})
}

// POST /api/v1/wallet/topup
func (h *WalletHandler) TopUp(c *fiber.Ctx) error {
	var req model.TopUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Amount <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "amount must be greater than 0"})
	}

	balance, err := h.marketSvc.TopUp(c.Context(), req.Amount)
	if err != nil {
		return marketError(c, err)
	}

	return c.JSON(fiber.Map{"balance": balance})
}
