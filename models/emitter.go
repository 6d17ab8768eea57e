package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Emitter statuses
const (
	EmitterStatusActive = "active"
	EmitterStatusPaused = "paused"
)

// Emitter represents one recruited streaming talent. An emitter belongs to
// exactly one recruiter for its entire lifetime and its cohort month never
// changes after creation.
type Emitter struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	BigoID       string             `json:"bigoId" bson:"bigoId"`
	Country      string             `json:"country,omitempty" bson:"country,omitempty"`
	RecruiterID  primitive.ObjectID `json:"recruiterId" bson:"recruiterId"`
	Month        string             `json:"month" bson:"month"` // cohort key, "YYYY-MM"
	Hours        float64            `json:"hours" bson:"hours"`
	Seeds        float64            `json:"seeds" bson:"seeds"`
	Status       string             `json:"status" bson:"status"` // "active", "paused"
	RegisteredAt time.Time          `json:"registeredAt" bson:"registeredAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// HoursHistoryEntry is the append-only audit record written whenever an admin
// edits an emitter's monthly hours.
type HoursHistoryEntry struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EmitterID primitive.ObjectID `json:"emitterId" bson:"emitterId"`
	OldHours  float64            `json:"oldHours" bson:"oldHours"`
	NewHours  float64            `json:"newHours" bson:"newHours"`
	AdminID   primitive.ObjectID `json:"adminId" bson:"adminId"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}

type CreateEmitterRequest struct {
	Name        string  `json:"name" validate:"required"`
	BigoID      string  `json:"bigoId" validate:"required"`
	Country     string  `json:"country,omitempty"`
	Seeds       float64 `json:"seeds,omitempty" validate:"gte=0"`
	RecruiterID string  `json:"recruiterId,omitempty"` // admin only; defaults to caller
}

type UpdateEmitterRequest struct {
	Name    string   `json:"name,omitempty"`
	BigoID  string   `json:"bigoId,omitempty"`
	Country string   `json:"country,omitempty"`
	Seeds   *float64 `json:"seeds,omitempty" validate:"omitempty,gte=0"`
}

type UpdateHoursRequest struct {
	Hours float64 `json:"hours" validate:"gte=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active paused"`
}
