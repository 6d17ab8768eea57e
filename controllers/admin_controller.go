package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/seedtalent/agency_backend/commission"
	"github.com/seedtalent/agency_backend/config"
	"github.com/seedtalent/agency_backend/models"
	"github.com/seedtalent/agency_backend/repositories"
	"github.com/seedtalent/agency_backend/utils"
)

// AdminController covers the admin-only surface: recruiter management,
// commission configuration and payout settlement.
type AdminController struct {
	DB       *mongo.Client
	users    *repositories.UserRepository
	emitters *repositories.EmitterRepository
	configs  *repositories.ConfigRepository
	payouts  *mongo.Collection
}

func NewAdminController(db *mongo.Client) *AdminController {
	return &AdminController{
		DB:       db,
		users:    repositories.NewUserRepository(db),
		emitters: repositories.NewEmitterRepository(db),
		configs:  repositories.NewConfigRepository(db, config.GetRedisClient()),
		payouts:  config.GetCollection(db, "payouts"),
	}
}

// GetRecruiters lists every recruiter account.
func (ac *AdminController) GetRecruiters(c echo.Context) error {
	recruiters, err := ac.users.FetchRecruiters()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch recruiters",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Recruiters retrieved successfully",
		Data:    recruiters,
	})
}

// CreateRecruiter provisions a recruiter account. There is no self sign-up.
func (ac *AdminController) CreateRecruiter(c echo.Context) error {
	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	var req models.CreateRecruiterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email, full name and a password of at least 8 characters are required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if _, err := ac.users.FindByEmail(email); err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "An account with this email already exists",
		})
	} else if err != repositories.ErrUserNotFound {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check existing accounts",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to hash password",
		})
	}

	now := time.Now()
	user := models.User{
		Email:     email,
		Password:  string(hashedPassword),
		FullName:  utils.SanitizeInput(req.FullName),
		UserType:  "recruiter",
		IsActive:  true,
		Phone:     req.Phone,
		Country:   utils.SanitizeInput(req.Country),
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: adminID,
	}

	if err := ac.users.Create(&user); err != nil {
		log.Printf("Failed to create recruiter: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create recruiter",
		})
	}

	user.Password = ""

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Recruiter created successfully",
		Data:    user,
	})
}

// ToggleRecruiterAccess flips a recruiter's active flag. Deactivated
// recruiters cannot log in and their tokens stop validating.
func (ac *AdminController) ToggleRecruiterAccess(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid recruiter ID",
		})
	}

	user, err := ac.users.FindByID(id)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Recruiter not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch recruiter",
		})
	}
	if user.UserType != "recruiter" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Only recruiter accounts can be toggled",
		})
	}

	isActive, err := ac.users.ToggleAccess(id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to toggle access",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Recruiter access updated successfully",
		Data:    map[string]bool{"isActive": isActive},
	})
}

// GetCommissionConfig returns the invoice and bracket configuration.
func (ac *AdminController) GetCommissionConfig(c echo.Context) error {
	cfg, err := ac.configs.Read()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load commission configuration",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission configuration retrieved successfully",
		Data:    cfg,
	})
}

// UpdateCommissionConfig overwrites the configuration wholesale.
func (ac *AdminController) UpdateCommissionConfig(c echo.Context) error {
	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	var req models.UpdateCommissionConfigRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Agency name and at least one non-negative bracket are required",
		})
	}

	cfg := models.CommissionConfig{
		AgencyName:         utils.SanitizeInput(req.AgencyName),
		Description:        utils.SanitizeInput(req.Description),
		PaymentInstitution: utils.SanitizeInput(req.PaymentInstitution),
		ReceiptNote:        utils.SanitizeInput(req.ReceiptNote),
		Brackets:           req.Brackets,
	}

	if err := ac.configs.Write(&cfg, adminID); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save commission configuration",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission configuration saved successfully",
		Data:    cfg,
	})
}

// CreatePayout settles one recruiter's commission for a month: it computes
// the billing set with the admin's exclusions applied, freezes the amount and
// statistics, and records the payout with a receipt reference.
func (ac *AdminController) CreatePayout(c echo.Context) error {
	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	var req models.CreatePayoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Recruiter ID and month are required",
		})
	}

	recruiterID, err := primitive.ObjectIDFromHex(req.RecruiterID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid recruiter ID",
		})
	}
	if err := utils.ValidateMonth(req.Month); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid month, expected YYYY-MM",
		})
	}

	if _, err := ac.users.FindByID(recruiterID); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Recruiter not found",
		})
	}

	excluded := map[primitive.ObjectID]bool{}
	excludedIDs := []primitive.ObjectID{}
	for _, raw := range req.ExcludedIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid excluded emitter ID",
			})
		}
		if !excluded[id] {
			excluded[id] = true
			excludedIDs = append(excludedIDs, id)
		}
	}

	emitters, err := ac.emitters.FetchEmitters(bson.M{"recruiterId": recruiterID, "month": req.Month})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch emitters",
		})
	}

	cfg, err := ac.configs.Read()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load commission configuration",
		})
	}

	billingSet := commission.FilterBillingSet(emitters, req.Month, recruiterID, excluded)
	stats := commission.ComputeStatistics(billingSet, cfg.Brackets)

	payout := models.Payout{
		RecruiterID: recruiterID,
		Month:       req.Month,
		ExcludedIDs: excludedIDs,
		Amount:      stats.TotalPayment,
		Stats:       stats,
		ReceiptRef:  uuid.New().String(),
		Status:      "pending",
		CreatedAt:   time.Now(),
		CreatedBy:   adminID,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := ac.payouts.InsertOne(ctx, payout)
	if err != nil {
		log.Printf("Failed to record payout: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to record payout",
		})
	}
	payout.ID = result.InsertedID.(primitive.ObjectID)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Payout recorded successfully",
		Data:    payout,
	})
}

// GetPayouts lists recorded payouts, optionally narrowed by recruiter, month
// or status.
func (ac *AdminController) GetPayouts(c echo.Context) error {
	filter := bson.M{}
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
		if status != "pending" && status != "paid" {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid status, expected pending or paid",
			})
		}
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := ac.payouts.Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch payouts",
		})
	}
	defer cursor.Close(ctx)

	payouts := []models.Payout{}
	if err := cursor.All(ctx, &payouts); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode payouts",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payouts retrieved successfully",
		Data:    payouts,
	})
}

// MarkPayoutPaid transitions a pending payout to paid.
func (ac *AdminController) MarkPayoutPaid(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payout ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	result, err := ac.payouts.UpdateOne(ctx,
		bson.M{"_id": id, "status": "pending"},
		bson.M{"$set": bson.M{"status": "paid", "paidAt": now}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update payout",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No pending payout with this ID",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payout marked as paid",
	})
}
