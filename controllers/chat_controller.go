package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/seedtalent/agency_backend/commission"
	"github.com/seedtalent/agency_backend/config"
	"github.com/seedtalent/agency_backend/models"
	"github.com/seedtalent/agency_backend/repositories"
	"github.com/seedtalent/agency_backend/services"
	"github.com/seedtalent/agency_backend/utils"
)

// ChatRequest is the assistant question payload.
type ChatRequest struct {
	Question string `json:"question" validate:"required"`
}

// ChatController answers free-form questions about the caller's roster using
// the Gemini-backed assistant.
type ChatController struct {
	DB        *mongo.Client
	emitters  *repositories.EmitterRepository
	configs   *repositories.ConfigRepository
	assistant *services.ChatAssistant
}

func NewChatController(db *mongo.Client, assistant *services.ChatAssistant) *ChatController {
	return &ChatController{
		DB:        db,
		emitters:  repositories.NewEmitterRepository(db),
		configs:   repositories.NewConfigRepository(db, config.GetRedisClient()),
		assistant: assistant,
	}
}

// Chat builds a summary of the caller's current-month roster and hands it to
// the assistant alongside the question. Assistant failures degrade to a fixed
// apology, never an error response.
func (cc *ChatController) Chat(c echo.Context) error {
	callerID, isAdmin, err := callerScope(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "A question is required",
		})
	}

	month := utils.CurrentMonth()
	filter := bson.M{"month": month}
	if !isAdmin {
		filter["recruiterId"] = callerID
	}

	emitters, err := cc.emitters.FetchEmitters(filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch emitters",
		})
	}

	cfg, err := cc.configs.Read()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load commission configuration",
		})
	}

	summary := buildRosterSummary(month, emitters, cfg.Brackets)
	answer := cc.assistant.Ask(c.Request().Context(), req.Question, summary)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Chat answered successfully",
		Data:    map[string]string{"answer": answer},
	})
}

// buildRosterSummary renders the emitters visible to the caller as plain text
// the model can reason over.
func buildRosterSummary(month string, emitters []models.Emitter, brackets []models.CommissionBracket) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Cohort month: %s. Emitters: %d.\n", month, len(emitters))
	fmt.Fprintf(&b, "Commission rules: an emitter needs at least %.0f verified hours to earn a payout; emitters under %.0f hours count as non-productive.\n",
		commission.HourGoal, commission.NonProductiveLimit)

	for _, e := range emitters {
		payout := commission.ComputeCommission(e.Seeds, e.Hours, brackets)
		fmt.Fprintf(&b, "- %s (Bigo ID %s, %s): %s seeds, %.1f hours, tier %q, payout %s USD\n",
			e.Name, e.BigoID, e.Status,
			commission.FormatSeeds(e.Seeds), e.Hours,
			commission.SeedMetaLabel(e.Seeds, brackets),
			commission.FormatUSD(payout))
	}

	stats := commission.ComputeStatistics(emitters, brackets)
	fmt.Fprintf(&b, "Totals: %d hour-goal met, %d seed-goal met, %d non-productive, %s USD total payment.\n",
		stats.HourGoalMet, stats.SeedGoalMet, stats.NonProductive, commission.FormatUSD(stats.TotalPayment))

	return b.String()
}
