package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommissionConfigID is the fixed key of the singleton configuration document.
const CommissionConfigID = "commission"

// CommissionBracket is one payout tier. The bracket with the greatest seeds
// threshold such that threshold <= the emitter's seed count wins.
type CommissionBracket struct {
	Seeds float64 `json:"seeds" bson:"seeds" validate:"gte=0"`
	USD   float64 `json:"usd" bson:"usd" validate:"gte=0"`
}

// CommissionConfig is the admin-editable invoice configuration. It is created
// lazily with defaults on first read and overwritten wholesale on write, last
// write wins.
type CommissionConfig struct {
	ID                 string              `json:"-" bson:"_id"`
	AgencyName         string              `json:"agencyName" bson:"agencyName"`
	Description        string              `json:"description" bson:"description"`
	PaymentInstitution string              `json:"paymentInstitution" bson:"paymentInstitution"`
	ReceiptNote        string              `json:"receiptNote" bson:"receiptNote"`
	Brackets           []CommissionBracket `json:"brackets" bson:"brackets"`
	UpdatedAt          time.Time           `json:"updatedAt" bson:"updatedAt"`
	UpdatedBy          primitive.ObjectID  `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
}

type UpdateCommissionConfigRequest struct {
	AgencyName         string              `json:"agencyName" validate:"required"`
	Description        string              `json:"description"`
	PaymentInstitution string              `json:"paymentInstitution"`
	ReceiptNote        string              `json:"receiptNote"`
	Brackets           []CommissionBracket `json:"brackets" validate:"required,min=1,dive"`
}

// CommissionStatistics are the aggregates computed over one billing set.
type CommissionStatistics struct {
	Total         int     `json:"total"`
	NonProductive int     `json:"nonProductive"`
	HourGoalMet   int     `json:"hourGoalMet"`
	SeedGoalMet   int     `json:"seedGoalMet"`
	TotalPayment  float64 `json:"totalPayment"`
}

// EmitterPayout is one row of the commission report: the emitter, the payout
// computed for it, and the seed tier label shown on the invoice.
type EmitterPayout struct {
	Emitter   Emitter `json:"emitter"`
	Amount    float64 `json:"amount"`
	MetaLabel string  `json:"metaLabel"`
}

// CommissionReport is the payload consumed by the invoice page.
type CommissionReport struct {
	Month       string               `json:"month"`
	RecruiterID string               `json:"recruiterId"`
	Recruiter   *User                `json:"recruiter,omitempty"`
	Excluded    []string             `json:"excluded,omitempty"`
	Payouts     []EmitterPayout      `json:"payouts"`
	Stats       CommissionStatistics `json:"stats"`
	Config      *CommissionConfig    `json:"config,omitempty"`
	GeneratedAt time.Time            `json:"generatedAt"`
}
