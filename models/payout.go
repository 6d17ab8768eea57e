package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payout is a persisted commission payout for one recruiter and month.
type Payout struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	RecruiterID primitive.ObjectID   `json:"recruiterId" bson:"recruiterId"`
	Month       string               `json:"month" bson:"month"`
	ExcludedIDs []primitive.ObjectID `json:"excludedIds,omitempty" bson:"excludedIds,omitempty"`
	Amount      float64              `json:"amount" bson:"amount"`
	Stats       CommissionStatistics `json:"stats" bson:"stats"`
	ReceiptRef  string               `json:"receiptRef" bson:"receiptRef"`
	Status      string               `json:"status" bson:"status"` // "pending", "paid"
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	CreatedBy   primitive.ObjectID   `json:"createdBy" bson:"createdBy"`
	PaidAt      *time.Time           `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}

type CreatePayoutRequest struct {
	RecruiterID string   `json:"recruiterId" validate:"required"`
	Month       string   `json:"month" validate:"required"`
	ExcludedIDs []string `json:"excludedIds,omitempty"`
}
