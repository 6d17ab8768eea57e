package controllers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/seedtalent/agency_backend/commission"
	"github.com/seedtalent/agency_backend/config"
	"github.com/seedtalent/agency_backend/middleware"
	"github.com/seedtalent/agency_backend/models"
	"github.com/seedtalent/agency_backend/repositories"
	"github.com/seedtalent/agency_backend/utils"
	"github.com/seedtalent/agency_backend/websocket"
)

// EmitterController handles recruited talent: registration, hour tracking and
// per-cohort statistics.
type EmitterController struct {
	DB       *mongo.Client
	emitters *repositories.EmitterRepository
	configs  *repositories.ConfigRepository
	hub      *websocket.Hub
}

func NewEmitterController(db *mongo.Client, hub *websocket.Hub) *EmitterController {
	return &EmitterController{
		DB:       db,
		emitters: repositories.NewEmitterRepository(db),
		configs:  repositories.NewConfigRepository(db, config.GetRedisClient()),
		hub:      hub,
	}
}

// callerScope extracts the caller's id and role from the JWT context keys.
func callerScope(c echo.Context) (primitive.ObjectID, bool, error) {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return primitive.NilObjectID, false, err
	}
	return userID, middleware.ExtractUserType(c) == "admin", nil
}

// CreateEmitter registers a new emitter in the current cohort month.
// Recruiters always own what they register; admins may register on behalf of
// a recruiter via recruiterId.
func (ec *EmitterController) CreateEmitter(c echo.Context) error {
	callerID, isAdmin, err := callerScope(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	var req models.CreateEmitterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Name and Bigo ID are required, seeds must not be negative",
		})
	}

	recruiterID := callerID
	if req.RecruiterID != "" {
		if !isAdmin {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Only admins can register emitters for another recruiter",
			})
		}
		recruiterID, err = primitive.ObjectIDFromHex(req.RecruiterID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid recruiter ID",
			})
		}
	}

	now := time.Now()
	emitter := models.Emitter{
		Name:         utils.SanitizeInput(req.Name),
		BigoID:       utils.SanitizeInput(req.BigoID),
		Country:      utils.SanitizeInput(req.Country),
		RecruiterID:  recruiterID,
		Month:        utils.CurrentMonth(),
		Hours:        0,
		Seeds:        req.Seeds,
		Status:       models.EmitterStatusActive,
		RegisteredAt: now,
		UpdatedAt:    now,
	}

	if err := ec.emitters.Create(&emitter); err != nil {
		log.Printf("Failed to create emitter: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to register emitter",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Emitter registered successfully",
		Data:    emitter,
	})
}

// GetEmitters lists emitters. Recruiters see only their own roster; admins see
// everything and may narrow by recruiterId. Both may narrow by month and
// status.
func (ec *EmitterController) GetEmitters(c echo.Context) error {
	callerID, isAdmin, err := callerScope(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	filter := bson.M{}
	if isAdmin {
		if rid := c.QueryParam("recruiterId"); rid != "" {
			recruiterID, err := primitive.ObjectIDFromHex(rid)
			if err != nil {
				return c.JSON(http.StatusBadRequest, models.Response{
					Status:  http.StatusBadRequest,
					Message: "Invalid recruiter ID",
				})
			}
			filter["recruiterId"] = recruiterID
		}
	} else {
		filter["recruiterId"] = callerID
	}

	if month := c.QueryParam("month"); month != "" {
		if err := utils.ValidateMonth(month); err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid month, expected YYYY-MM",
			})
		}
		filter["month"] = month
	}
	if status := c.QueryParam("status"); status != "" {
		if status != models.EmitterStatusActive && status != models.EmitterStatusPaused {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid status, expected active or paused",
			})
		}
		filter["status"] = status
	}

	emitters, err := ec.emitters.FetchEmitters(filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch emitters",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Emitters retrieved successfully",
		Data:    emitters,
	})
}

// loadScoped fetches an emitter and enforces recruiter ownership.
func (ec *EmitterController) loadScoped(c echo.Context) (*models.Emitter, primitive.ObjectID, bool, int, string) {
	callerID, isAdmin, err := callerScope(c)
	if err != nil {
		return nil, primitive.NilObjectID, false, http.StatusUnauthorized, err.Error()
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return nil, primitive.NilObjectID, false, http.StatusBadRequest, "Invalid emitter ID"
	}

	emitter, err := ec.emitters.FindByID(id)
	if err != nil {
		if err == repositories.ErrEmitterNotFound {
			return nil, primitive.NilObjectID, false, http.StatusNotFound, "Emitter not found"
		}
		return nil, primitive.NilObjectID, false, http.StatusInternalServerError, "Failed to fetch emitter"
	}

	if !isAdmin && emitter.RecruiterID != callerID {
		return nil, primitive.NilObjectID, false, http.StatusForbidden, "You do not manage this emitter"
	}

	return emitter, callerID, isAdmin, 0, ""
}

// GetEmitter returns a single emitter.
func (ec *EmitterController) GetEmitter(c echo.Context) error {
	emitter, _, _, status, msg := ec.loadScoped(c)
	if status != 0 {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Emitter retrieved successfully",
		Data:    emitter,
	})
}

// UpdateEmitter edits the mutable fields of an emitter. Owner recruiter and
// cohort month are immutable and never touched here.
func (ec *EmitterController) UpdateEmitter(c echo.Context) error {
	emitter, _, _, status, msg := ec.loadScoped(c)
	if status != 0 {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	var req models.UpdateEmitterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Seeds must not be negative",
		})
	}

	fields := bson.M{}
	if req.Name != "" {
		fields["name"] = utils.SanitizeInput(req.Name)
	}
	if req.BigoID != "" {
		fields["bigoId"] = utils.SanitizeInput(req.BigoID)
	}
	if req.Country != "" {
		fields["country"] = utils.SanitizeInput(req.Country)
	}
	if req.Seeds != nil {
		fields["seeds"] = *req.Seeds
	}

	if len(fields) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "No fields to update",
		})
	}

	if err := ec.emitters.UpdateFields(emitter.ID, fields); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update emitter",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Emitter updated successfully",
	})
}

// UpdateStatus pauses or reactivates an emitter.
func (ec *EmitterController) UpdateStatus(c echo.Context) error {
	emitter, _, _, status, msg := ec.loadScoped(c)
	if status != 0 {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	var req models.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Status must be active or paused",
		})
	}

	if err := ec.emitters.SetStatus(emitter.ID, req.Status); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update status",
		})
	}

	ec.hub.NotifyEmitterUpdate(emitter.RecruiterID, websocket.EventStatusUpdate,
		fmt.Sprintf("%s is now %s", emitter.Name, req.Status),
		map[string]interface{}{
			"emitterId": emitter.ID.Hex(),
			"status":    req.Status,
		})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Status updated successfully",
	})
}

// UpdateHours sets an emitter's verified monthly hours. Admin only; every edit
// is recorded in the hours history, pushed over websocket and over FCM to the
// owning recruiter.
func (ec *EmitterController) UpdateHours(c echo.Context) error {
	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid emitter ID",
		})
	}

	var req models.UpdateHoursRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Hours must not be negative",
		})
	}

	emitter, err := ec.emitters.FindByID(id)
	if err != nil {
		if err == repositories.ErrEmitterNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Emitter not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch emitter",
		})
	}

	if err := ec.emitters.UpdateHours(id, emitter.Hours, req.Hours, adminID); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update hours",
		})
	}

	message := fmt.Sprintf("%s's verified hours changed from %.1f to %.1f",
		emitter.Name, emitter.Hours, req.Hours)

	ec.hub.NotifyEmitterUpdate(emitter.RecruiterID, websocket.EventHoursUpdate, message,
		map[string]interface{}{
			"emitterId": emitter.ID.Hex(),
			"oldHours":  emitter.Hours,
			"newHours":  req.Hours,
		})

	go func() {
		err := utils.SendFCMNotificationToUser(ec.DB, emitter.RecruiterID,
			"Hours updated", message,
			map[string]string{"emitterId": emitter.ID.Hex()})
		if err != nil {
			log.Printf("Failed to send hours update push: %v", err)
		}
	}()

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Hours updated successfully",
	})
}

// GetHoursHistory returns the audit trail of hour edits for one emitter.
func (ec *EmitterController) GetHoursHistory(c echo.Context) error {
	emitter, _, _, status, msg := ec.loadScoped(c)
	if status != 0 {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	entries, err := ec.emitters.FetchHoursHistory(emitter.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch hours history",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Hours history retrieved successfully",
		Data:    entries,
	})
}

// GetStats returns the billable-cohort statistics for a month. Recruiters get
// their own roster, admins may request any recruiter's.
func (ec *EmitterController) GetStats(c echo.Context) error {
	callerID, isAdmin, err := callerScope(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	month := c.QueryParam("month")
	if month == "" {
		month = utils.CurrentMonth()
	}
	if err := utils.ValidateMonth(month); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid month, expected YYYY-MM",
		})
	}

	recruiterID := callerID
	if rid := c.QueryParam("recruiterId"); rid != "" {
		if !isAdmin {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Only admins can view another recruiter's statistics",
			})
		}
		recruiterID, err = primitive.ObjectIDFromHex(rid)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid recruiter ID",
			})
		}
	}

	emitters, err := ec.emitters.FetchEmitters(bson.M{"recruiterId": recruiterID, "month": month})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch emitters",
		})
	}

	cfg, err := ec.configs.Read()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load commission configuration",
		})
	}

	billingSet := commission.FilterBillingSet(emitters, month, recruiterID, nil)
	stats := commission.ComputeStatistics(billingSet, cfg.Brackets)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Statistics computed successfully",
		Data: map[string]interface{}{
			"month":       month,
			"recruiterId": recruiterID.Hex(),
			"stats":       stats,
		},
	})
}
