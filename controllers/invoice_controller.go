package controllers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"net/http"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/seedtalent/agency_backend/commission"
	"github.com/seedtalent/agency_backend/config"
	"github.com/seedtalent/agency_backend/models"
	"github.com/seedtalent/agency_backend/repositories"
	"github.com/seedtalent/agency_backend/utils"
)

// InvoiceController serves the commission report consumed by the printable
// invoice page, plus the QR code embedded on it.
type InvoiceController struct {
	DB       *mongo.Client
	emitters *repositories.EmitterRepository
	users    *repositories.UserRepository
	configs  *repositories.ConfigRepository
}

func NewInvoiceController(db *mongo.Client) *InvoiceController {
	return &InvoiceController{
		DB:       db,
		emitters: repositories.NewEmitterRepository(db),
		users:    repositories.NewUserRepository(db),
		configs:  repositories.NewConfigRepository(db, config.GetRedisClient()),
	}
}

// reportParams resolves the month, recruiter and exclusion set for a report
// request, enforcing that recruiters only ever see their own roster and that
// only admins may exclude emitters.
func (ic *InvoiceController) reportParams(c echo.Context) (string, primitive.ObjectID, map[primitive.ObjectID]bool, []string, int, string) {
	callerID, isAdmin, err := callerScope(c)
	if err != nil {
		return "", primitive.NilObjectID, nil, nil, http.StatusUnauthorized, err.Error()
	}

	month := c.QueryParam("month")
	if month == "" {
		month = utils.CurrentMonth()
	}
	if err := utils.ValidateMonth(month); err != nil {
		return "", primitive.NilObjectID, nil, nil, http.StatusBadRequest, "Invalid month, expected YYYY-MM"
	}

	recruiterID := callerID
	if rid := c.QueryParam("recruiterId"); rid != "" {
		parsed, err := primitive.ObjectIDFromHex(rid)
		if err != nil {
			return "", primitive.NilObjectID, nil, nil, http.StatusBadRequest, "Invalid recruiter ID"
		}
		if !isAdmin && parsed != callerID {
			return "", primitive.NilObjectID, nil, nil, http.StatusForbidden, "Recruiters can only view their own report"
		}
		recruiterID = parsed
	}

	excluded := map[primitive.ObjectID]bool{}
	excludedHex := []string{}
	if raw := c.QueryParam("exclude"); raw != "" {
		if !isAdmin {
			return "", primitive.NilObjectID, nil, nil, http.StatusForbidden, "Only admins can exclude emitters from a report"
		}
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := primitive.ObjectIDFromHex(part)
			if err != nil {
				return "", primitive.NilObjectID, nil, nil, http.StatusBadRequest, "Invalid excluded emitter ID"
			}
			if !excluded[id] {
				excluded[id] = true
				excludedHex = append(excludedHex, id.Hex())
			}
		}
	}

	return month, recruiterID, excluded, excludedHex, 0, ""
}

// GetCommissionReport builds the full invoice payload: the filtered billing
// set with per-emitter payouts and tier labels, the aggregate statistics, and
// the agency configuration.
func (ic *InvoiceController) GetCommissionReport(c echo.Context) error {
	month, recruiterID, excluded, excludedHex, status, msg := ic.reportParams(c)
	if status != 0 {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	recruiter, err := ic.users.FindByID(recruiterID)
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
	recruiter.Password = ""

	emitters, err := ic.emitters.FetchEmitters(bson.M{"recruiterId": recruiterID, "month": month})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch emitters",
		})
	}

	cfg, err := ic.configs.Read()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load commission configuration",
		})
	}

	billingSet := commission.FilterBillingSet(emitters, month, recruiterID, excluded)
	report := models.CommissionReport{
		Month:       month,
		RecruiterID: recruiterID.Hex(),
		Recruiter:   recruiter,
		Excluded:    excludedHex,
		Payouts:     commission.BuildPayouts(billingSet, cfg.Brackets),
		Stats:       commission.ComputeStatistics(billingSet, cfg.Brackets),
		Config:      cfg,
		GeneratedAt: time.Now(),
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission report generated successfully",
		Data:    report,
	})
}

// GetReportQR renders the QR code printed on the invoice. It encodes the
// recruiter, month and total so a scanned receipt can be matched back to the
// settlement it came from.
func (ic *InvoiceController) GetReportQR(c echo.Context) error {
	month, recruiterID, excluded, _, status, msg := ic.reportParams(c)
	if status != 0 {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	emitters, err := ic.emitters.FetchEmitters(bson.M{"recruiterId": recruiterID, "month": month})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch emitters",
		})
	}

	cfg, err := ic.configs.Read()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load commission configuration",
		})
	}

	billingSet := commission.FilterBillingSet(emitters, month, recruiterID, excluded)
	stats := commission.ComputeStatistics(billingSet, cfg.Brackets)

	content := fmt.Sprintf("agency:payout:%s:%s:%s",
		recruiterID.Hex(), month, commission.FormatUSD(stats.TotalPayment))

	qrCode, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code",
		})
	}

	qrCode, err = barcode.Scale(qrCode, 300, 300)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to scale QR code",
		})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrCode); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to encode QR code",
		})
	}

	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "QR code generated successfully",
		Data: map[string]string{
			"qrCode":  dataURI,
			"content": content,
		},
	})
}
