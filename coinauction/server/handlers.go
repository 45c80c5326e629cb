package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hypemarket/coinauction/coinauction/engine"
	"github.com/hypemarket/coinauction/coinauction/logger"
)

type createAuctionRequest struct {
	Title        string `json:"title"`
	Category     string `json:"category"`
	SellerID     string `json:"seller_id"`
	StartPrice   int64  `json:"start_price"`
	BuyNowPrice  int64  `json:"buy_now_price"`
	DurationSecs int64  `json:"duration_secs"`
	AllowAutoBid bool   `json:"allow_auto_bid"`
}

type placeBidRequest struct {
	BidderID   string `json:"bidder_id"`
	Amount     int64  `json:"amount"`
	MaxAutoBid int64  `json:"max_auto_bid"`
}

type actorRequest struct {
	ActorID string `json:"actor_id"`
}

func (s *Server) handleCreateAuction(c *fiber.Ctx) error {
	var req createAuctionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	auction, err := s.engine.CreateAuction(c.Context(), engine.CreateParams{
		Title:        req.Title,
		Category:     req.Category,
		SellerID:     req.SellerID,
		StartPrice:   req.StartPrice,
		BuyNowPrice:  req.BuyNowPrice,
		Duration:     time.Duration(req.DurationSecs) * time.Second,
		AllowAutoBid: req.AllowAutoBid,
	})
	if err != nil {
		return engineError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(auction)
}

func (s *Server) handleListAuctions(c *fiber.Ctx) error {
	query := c.Query("q")

	auctions, err := s.engine.SearchActive(c.Context(), query)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"auctions": auctions})
}

func (s *Server) handleGetAuction(c *fiber.Ctx) error {
	auction, err := s.engine.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(auction)
}

func (s *Server) handleGetAuctionBids(c *fiber.Ctx) error {
	auction, err := s.engine.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		return engineError(c, err)
	}

	bids, err := s.engine.Bids().GetByAuction(c.Context(), auction.ID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"bids": bids})
}

func (s *Server) handlePublishAuction(c *fiber.Ctx) error {
	var req actorRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	auction, err := s.engine.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		return engineError(c, err)
	}

	published, err := s.engine.PublishAuction(c.Context(), auction.ID, req.ActorID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(published)
}

func (s *Server) handlePlaceBid(c *fiber.Ctx) error {
	var req placeBidRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	auction, err := s.engine.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		return engineError(c, err)
	}

	start := time.Now()
	result, err := s.engine.PlaceBid(c.Context(), auction.ID, req.BidderID, req.Amount, req.MaxAutoBid)
	logger.LogBid("place_bid", time.Since(start), err)
	if err != nil {
		return engineError(c, err)
	}

	return c.JSON(fiber.Map{
		"final_amount":     result.FinalAmount,
		"auction_extended": result.AuctionExtended,
		"new_end_time":     result.NewEndTime,
		"new_balance":      result.NewBalance,
	})
}

func (s *Server) handleBuyNow(c *fiber.Ctx) error {
	var req actorRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	auction, err := s.engine.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		return engineError(c, err)
	}

	result, err := s.engine.BuyNow(c.Context(), auction.ID, req.ActorID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"new_balance": result.NewBalance})
}

func (s *Server) handleCancelAuction(c *fiber.Ctx) error {
	var req actorRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	auction, err := s.engine.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		return engineError(c, err)
	}

	if err := s.engine.CancelAuction(c.Context(), auction.ID, req.ActorID); err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"status": "cancelled"})
}

func (s *Server) handleSettleExpired(c *fiber.Ctx) error {
	auction, err := s.engine.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		return engineError(c, err)
	}

	outcome, err := s.engine.SettleExpired(c.Context(), auction.ID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"outcome": outcome})
}

func (s *Server) handleGetBalance(c *fiber.Ctx) error {
	balance, err := s.engine.Accounts().GetBalance(c.Context(), c.Params("id"))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"balance": balance})
}

func (s *Server) handleGetAccountBids(c *fiber.Ctx) error {
	bids, err := s.engine.Bids().GetByBidder(c.Context(), c.Params("id"))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"bids": bids})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// engineError maps the engine's typed failures onto HTTP statuses.
func engineError(c *fiber.Ctx, err error) error {
	var bidTooLow *engine.BidTooLowError
	var insufficient *engine.InsufficientBalanceError

	switch {
	case errors.As(err, &bidTooLow):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    bidTooLow.Error(),
			"required": bidTooLow.Required,
		})
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error":    insufficient.Error(),
			"balance":  insufficient.Balance,
			"required": insufficient.Required,
		})
	case errors.Is(err, engine.ErrAuctionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrTransientConflict):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
			"retry": true,
		})
	case errors.Is(err, engine.ErrAuctionNotActive),
		errors.Is(err, engine.ErrAuctionNotExpired),
		errors.Is(err, engine.ErrSelfBid),
		errors.Is(err, engine.ErrBuyNowUnavailable),
		errors.Is(err, engine.ErrNotDraft),
		errors.Is(err, engine.ErrNotCancellable),
		errors.Is(err, engine.ErrNotSeller):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
