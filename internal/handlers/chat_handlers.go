// Package handlers wires the hub into fiber: the websocket chat
// endpoint plus the REST surfaces the browser app consumes around it
// (auth gates, match-request review, admin statistics).
package handlers

import (
	"strconv"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unitandem/tandem-chat/internal/hub"
)

// API bundles the handlers' dependencies.
type API struct {
	Hub     *hub.Hub
	Matches *hub.MatchRegistry
	Log     zerolog.Logger
}

// Register mounts all routes on the app.
func (a *API) Register(app *fiber.App) {
	app.Get("/api/ws/chat/:user", websocket.New(a.ChatSocketHandler))

	app.Get("/isAuthenticated", a.IsAuthenticatedHandler)
	app.Get("/api/v1/users/isRegistered", a.IsRegisteredHandler)
	app.Get("/api/v1/admin/statistics", a.StatisticsHandler)

	app.Get("/api/v1/usersMatch/receiptMatchsRequests", a.MatchRequestsHandler)
	app.Post("/api/v1/usersMatch/acceptMatchRequest/:id", a.AcceptMatchRequestHandler)
	app.Post("/api/v1/usersMatch/denyMatchRequest/:id", a.DenyMatchRequestHandler)
}

// ChatSocketHandler GET /api/ws/chat/:user
func (a *API) ChatSocketHandler(c *websocket.Conn) {
	user, err := strconv.ParseInt(c.Params("user"), 10, 64)
	if err != nil {
		a.Log.Debug().Str("user", c.Params("user")).Msg("rejecting non-numeric user id")
		_ = c.Close()
		return
	}
	client := hub.NewClient(a.Hub, user, c)
	a.Hub.RegisterChan <- client
	go client.WritePump()
	client.ReadPump()
}

// IsAuthenticatedHandler GET /isAuthenticated
//
// Authentication itself lives elsewhere in the platform; this endpoint
// only provides the shape the pages gate on.
func (a *API) IsAuthenticatedHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"isAuthenticated": true})
}

// IsRegisteredHandler GET /api/v1/users/isRegistered
func (a *API) IsRegisteredHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"isRegistered": true, "isAdmin": false})
}

// StatisticsHandler GET /api/v1/admin/statistics
//
// The admin screen consumes the rows as opaque data.
func (a *API) StatisticsHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": a.Hub.Stats()})
}

// MatchRequestsHandler GET /api/v1/usersMatch/receiptMatchsRequests?user=
func (a *API) MatchRequestsHandler(c *fiber.Ctx) error {
	user, err := strconv.ParseInt(c.Query("user"), 10, 64)
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	return c.JSON(a.Matches.PendingFor(user))
}

// AcceptMatchRequestHandler POST /api/v1/usersMatch/acceptMatchRequest/:id
//
// Accepting a request is what provisions the conversation room between
// the two users.
func (a *API) AcceptMatchRequestHandler(c *fiber.Ctx) error {
	req, ok := a.Matches.Accept(c.Params("id"))
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}
	roomID, err := a.Hub.CreateRoom(req.FromUser, req.ToUser)
	if err != nil {
		a.Log.Warn().Err(err).Str("match", req.ID).Msg("room provisioning failed")
		return c.SendStatus(fiber.StatusConflict)
	}
	return c.JSON(fiber.Map{"roomId": roomID})
}

// DenyMatchRequestHandler POST /api/v1/usersMatch/denyMatchRequest/:id
func (a *API) DenyMatchRequestHandler(c *fiber.Ctx) error {
	if !a.Matches.Deny(c.Params("id")) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
