package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/circlecare/internal/models"
)

type friendRequestResponse struct {
	ID           uint   `json:"id"`
	FromUserID   uint   `json:"from_user_id"`
	FromUsername string `json:"from_username"`
	ToUserID     uint   `json:"to_user_id"`
	ToUsername   string `json:"to_username"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

func (handler *Handler) GetFriends(c *fiber.Ctx) error {
	user := mustCurrentUser(c)
	friendIDs, err := handler.friendService.GetFriends(user.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	usernames, err := handler.authService.UsernamesByIDs(friendIDs)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"friends": usernames})
}

func (handler *Handler) RemoveFriend(c *fiber.Ctx) error {
	user := mustCurrentUser(c)
	friend, err := handler.authService.FindByUsername(c.Params("friend"))
	if err != nil {
		return respondServiceError(c, err)
	}
	if err := handler.friendService.RemoveFriend(user.ID, friend.ID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) GetFriendRequests(c *fiber.Ctx) error {
	user := mustCurrentUser(c)
	requests, err := handler.friendService.GetRequests(user.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return handler.respondFriendRequests(c, requests)
}

func (handler *Handler) GetSentFriendRequests(c *fiber.Ctx) error {
	user := mustCurrentUser(c)
	requests, err := handler.friendService.GetSentRequests(user.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return handler.respondFriendRequests(c, requests)
}

func (handler *Handler) SendFriendRequest(c *fiber.Ctx) error {
	user := mustCurrentUser(c)
	recipient, err := handler.authService.FindByUsername(c.Params("to"))
	if err != nil {
		return respondServiceError(c, err)
	}

	request, err := handler.friendService.SendRequest(user.ID, recipient.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"request": newFriendRequestResponse(request, user.Username, recipient.Username),
	})
}

func (handler *Handler) RemoveFriendRequest(c *fiber.Ctx) error {
	user := mustCurrentUser(c)
	recipient, err := handler.authService.FindByUsername(c.Params("to"))
	if err != nil {
		return respondServiceError(c, err)
	}
	if err := handler.friendService.RemoveRequest(user.ID, recipient.ID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) AcceptFriendRequest(c *fiber.Ctx) error {
	user := mustCurrentUser(c)
	sender, err := handler.authService.FindByUsername(c.Params("from"))
	if err != nil {
		return respondServiceError(c, err)
	}
	if err := handler.friendService.AcceptRequest(sender.ID, user.ID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "friend": sender.Username})
}

func (handler *Handler) RejectFriendRequest(c *fiber.Ctx) error {
	user := mustCurrentUser(c)
	sender, err := handler.authService.FindByUsername(c.Params("from"))
	if err != nil {
		return respondServiceError(c, err)
	}
	if err := handler.friendService.RejectRequest(sender.ID, user.ID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) respondFriendRequests(c *fiber.Ctx, requests []models.FriendRequest) error {
	ids := make([]uint, 0, len(requests)*2)
	for _, request := range requests {
		ids = append(ids, request.FromUserID, request.ToUserID)
	}
	users, err := handler.repositories.Users.ListByIDs(ids)
	if err != nil {
		return respondServiceError(c, err)
	}
	usernames := make(map[uint]string, len(users))
	for _, user := range users {
		usernames[user.ID] = user.Username
	}

	response := make([]friendRequestResponse, 0, len(requests))
	for _, request := range requests {
		response = append(response, newFriendRequestResponse(request, usernames[request.FromUserID], usernames[request.ToUserID]))
	}
	return c.JSON(fiber.Map{"requests": response})
}

func newFriendRequestResponse(request models.FriendRequest, fromUsername string, toUsername string) friendRequestResponse {
	return friendRequestResponse{
		ID:           request.ID,
		FromUserID:   request.FromUserID,
		FromUsername: fromUsername,
		ToUserID:     request.ToUserID,
		ToUsername:   toUsername,
		Status:       request.Status,
		CreatedAt:    request.CreatedAt.UTC().Format(time.RFC3339),
	}
}
