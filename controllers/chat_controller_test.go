package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seedtalent/agency_backend/models"
)

func TestBuildRosterSummary(t *testing.T) {
	brackets := []models.CommissionBracket{
		{Seeds: 2000, USD: 1.50},
		{Seeds: 5000, USD: 3.50},
	}
	emitters := []models.Emitter{
		{Name: "Lina", BigoID: "lina01", Status: "active", Seeds: 5200, Hours: 50},
		{Name: "Omar", BigoID: "omar99", Status: "paused", Seeds: 800, Hours: 10},
	}

	summary := buildRosterSummary("2026-08", emitters, brackets)

	assert.Contains(t, summary, "Cohort month: 2026-08. Emitters: 2.")
	assert.Contains(t, summary, "Lina (Bigo ID lina01, active): 5,200 seeds, 50.0 hours")
	assert.Contains(t, summary, "payout 3.50 USD")
	// Under the hour gate nothing is paid out
	assert.Contains(t, summary, "Omar (Bigo ID omar99, paused): 800 seeds, 10.0 hours")
	assert.Contains(t, summary, "payout 0.00 USD")
	assert.Contains(t, summary, "1 non-productive")
}

func TestBuildRosterSummaryEmpty(t *testing.T) {
	summary := buildRosterSummary("2026-08", nil, nil)

	assert.Contains(t, summary, "Emitters: 0.")
	assert.Contains(t, summary, "0.00 USD total payment")
}
