package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hypemarket/coinauction/coinauction/engine"
)

// Server is the HTTP surface over the auction engine. It only translates
// requests into engine calls; all validation and accounting lives below.
type Server struct {
	app    *fiber.App
	engine *engine.Engine
}

func New(eng *engine.Engine) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "coinauction",
		DisableStartupMessage: true,
	})

	s := &Server{app: app, engine: eng}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api")

	auctions := api.Group("/auctions")
	auctions.Post("/", s.handleCreateAuction)
	auctions.Get("/", s.handleListAuctions)
	auctions.Get("/:code", s.handleGetAuction)
	auctions.Get("/:code/bids", s.handleGetAuctionBids)
	auctions.Post("/:code/publish", s.handlePublishAuction)
	auctions.Post("/:code/bids", s.handlePlaceBid)
	auctions.Post("/:code/buy-now", s.handleBuyNow)
	auctions.Post("/:code/cancel", s.handleCancelAuction)
	auctions.Post("/:code/settle", s.handleSettleExpired)

	api.Get("/accounts/:id/balance", s.handleGetBalance)
	api.Get("/accounts/:id/bids", s.handleGetAccountBids)
}

func (s *Server) Listen(addr string) error {
	slog.Info("HTTP server listening", slog.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
