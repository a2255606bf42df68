package api

import "github.com/gofiber/fiber/v2"

type route struct {
	method  string
	path    string
	auth    bool
	handler fiber.Handler
}

// routeTable lists every endpoint in registration order.
func (handler *Handler) routeTable() []route {
	return []route{
		{fiber.MethodGet, "/healthz", false, handler.Health},
		{fiber.MethodGet, "/metrics", false, handler.Metrics()},

		{fiber.MethodGet, "/api/session", true, handler.Session},
		{fiber.MethodGet, "/api/users", true, handler.ListUsers},
		{fiber.MethodPost, "/api/users", false, handler.Register},
		{fiber.MethodPatch, "/api/users/username", true, handler.UpdateUsername},
		{fiber.MethodPatch, "/api/users/password", true, handler.UpdatePassword},
		{fiber.MethodDelete, "/api/users", true, handler.DeleteAccount},
		{fiber.MethodGet, "/api/users/:username", true, handler.GetUser},
		{fiber.MethodPost, "/api/login", false, handler.Login},
		{fiber.MethodPost, "/api/logout", false, handler.Logout},

		{fiber.MethodGet, "/api/friends", true, handler.GetFriends},
		{fiber.MethodDelete, "/api/friends/:friend", true, handler.RemoveFriend},
		{fiber.MethodGet, "/api/friend/requests", true, handler.GetFriendRequests},
		{fiber.MethodGet, "/api/friend/requests/sent", true, handler.GetSentFriendRequests},
		{fiber.MethodPost, "/api/friend/requests/:to", true, handler.SendFriendRequest},
		{fiber.MethodDelete, "/api/friend/requests/:to", true, handler.RemoveFriendRequest},
		{fiber.MethodPut, "/api/friend/accept/:from", true, handler.AcceptFriendRequest},
		{fiber.MethodPut, "/api/friend/reject/:from", true, handler.RejectFriendRequest},

		{fiber.MethodGet, "/api/cycles/stats", true, handler.GetCycleStats},
		{fiber.MethodGet, "/api/logs", true, handler.ListLogs},
		{fiber.MethodPost, "/api/logs", true, handler.CreateLog},
		{fiber.MethodPut, "/api/logs/:id", true, handler.UpdateLog},
		{fiber.MethodDelete, "/api/logs/:id", true, handler.DeleteLog},
		{fiber.MethodGet, "/api/log", true, handler.GetLogByDate},
	}
}

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Use(handler.RecordMetrics)
	for _, entry := range handler.routeTable() {
		if entry.auth {
			app.Add(entry.method, entry.path, handler.AuthRequired, entry.handler)
			continue
		}
		app.Add(entry.method, entry.path, entry.handler)
	}
}
