package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/circlecare/internal/models"
	"github.com/terraincognita07/circlecare/internal/services"
)

type logEntryResponse struct {
	ID        uint                 `json:"id"`
	Date      string               `json:"date"`
	Symptoms  []models.Symptom     `json:"symptoms"`
	Mood      models.Mood          `json:"mood,omitempty"`
	Flow      models.FlowIntensity `json:"flow,omitempty"`
	Notes     string               `json:"notes"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func (handler *Handler) newLogEntryResponse(entry models.LogEntry) logEntryResponse {
	symptoms := entry.Symptoms
	if symptoms == nil {
		symptoms = []models.Symptom{}
	}
	return logEntryResponse{
		ID:        entry.ID,
		Date:      services.FormatDay(entry.Date.In(handler.location)),
		Symptoms:  symptoms,
		Mood:      entry.Mood,
		Flow:      entry.Flow,
		Notes:     entry.Notes,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
}

func (input logInput) toServiceInput() services.LogInput {
	symptoms := make([]models.Symptom, 0, len(input.Symptoms))
	for _, symptom := range input.Symptoms {
		symptoms = append(symptoms, models.Symptom(symptom))
	}
	return services.LogInput{
		Symptoms: symptoms,
		Mood:     models.Mood(input.Mood),
		Flow:     models.FlowIntensity(input.Flow),
		Notes:    input.Notes,
	}
}

func (handler *Handler) ListLogs(c *fiber.Ctx) error {
	user := mustCurrentUser(c)

	from, err := handler.optionalDayQuery(c, "from")
	if err != nil {
		return respondServiceError(c, err)
	}
	to, err := handler.optionalDayQuery(c, "to")
	if err != nil {
		return respondServiceError(c, err)
	}
	if from != nil && to != nil && to.Before(*from) {
		return apiError(c, fiber.StatusBadRequest, "to must not be before from")
	}

	entries, err := handler.logService.ListByOwner(user.ID, from, to)
	if err != nil {
		return respondServiceError(c, err)
	}

	response := make([]logEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, handler.newLogEntryResponse(entry))
	}
	return c.JSON(fiber.Map{"logs": response})
}

func (handler *Handler) CreateLog(c *fiber.Ctx) error {
	user := mustCurrentUser(c)
	input, err := bindInput[createLogInput](handler, c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	day, err := services.ParseDay(input.Date, handler.location)
	if err != nil {
		return respondServiceError(c, err)
	}

	entry, err := handler.logService.Create(user.ID, day, input.logInput.toServiceInput())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"log": handler.newLogEntryResponse(entry)})
}

func (handler *Handler) UpdateLog(c *fiber.Ctx) error {
	user := mustCurrentUser(c)
	entryID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	input, err := bindInput[logInput](handler, c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	entry, err := handler.logService.UpdateOwned(user.ID, entryID, input.toServiceInput())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"log": handler.newLogEntryResponse(entry)})
}

func (handler *Handler) DeleteLog(c *fiber.Ctx) error {
	user := mustCurrentUser(c)
	entryID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := handler.logService.DeleteOwned(user.ID, entryID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) GetLogByDate(c *fiber.Ctx) error {
	user := mustCurrentUser(c)
	raw := strings.TrimSpace(c.Query("date"))
	if raw == "" {
		return apiError(c, fiber.StatusBadRequest, "date is required")
	}
	day, err := services.ParseDay(raw, handler.location)
	if err != nil {
		return respondServiceError(c, err)
	}

	entry, found, err := handler.logService.GetByDate(user.ID, day)
	if err != nil {
		return respondServiceError(c, err)
	}
	if !found {
		return respondServiceError(c, services.ErrLogEntryNotFound)
	}
	return c.JSON(fiber.Map{"log": handler.newLogEntryResponse(entry)})
}

func (handler *Handler) optionalDayQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	day, err := services.ParseDay(raw, handler.location)
	if err != nil {
		return nil, err
	}
	return &day, nil
}
