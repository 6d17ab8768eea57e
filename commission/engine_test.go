package commission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/seedtalent/agency_backend/models"
)

var testBrackets = []models.CommissionBracket{
	{Seeds: 2000, USD: 1.50},
	{Seeds: 5000, USD: 3.50},
}

func TestComputeCommission(t *testing.T) {
	tests := []struct {
		name  string
		seeds float64
		hours float64
		want  float64
	}{
		{"top bracket at exact threshold", 5000, 44, 3.50},
		{"one seed below top bracket", 4999, 44, 1.50},
		{"one hour below the gate", 5000, 43, 0},
		{"no qualifying bracket", 500, 44, 0},
		{"zero everything", 0, 0, 0},
		{"hours above gate, lower bracket", 2000, 120, 1.50},
		{"far above top bracket", 250000, 44, 3.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeCommission(tt.seeds, tt.hours, testBrackets)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeCommissionHoursGateIsAbsolute(t *testing.T) {
	for _, seeds := range []float64{0, 1999, 2000, 4999, 5000, 1e9} {
		for _, hours := range []float64{0, 10, 20, 43, 43.99} {
			assert.Zerof(t, ComputeCommission(seeds, hours, testBrackets),
				"seeds=%v hours=%v", seeds, hours)
		}
	}
}

func TestComputeCommissionMonotonicInSeeds(t *testing.T) {
	prev := 0.0
	for seeds := 0.0; seeds <= 10000; seeds += 250 {
		got := ComputeCommission(seeds, 44, testBrackets)
		assert.GreaterOrEqualf(t, got, prev, "payout decreased at seeds=%v", seeds)
		prev = got
	}
}

func TestComputeCommissionUnorderedBrackets(t *testing.T) {
	// Brackets are matched by descending threshold regardless of their
	// insertion order in the configuration.
	shuffled := []models.CommissionBracket{
		{Seeds: 5000, USD: 3.50},
		{Seeds: 2000, USD: 1.50},
	}
	assert.Equal(t, 3.50, ComputeCommission(6000, 44, shuffled))
	assert.Equal(t, 1.50, ComputeCommission(2500, 44, shuffled))
}

func TestComputeCommissionEmptyBrackets(t *testing.T) {
	assert.Zero(t, ComputeCommission(100000, 100, nil))
}

func TestSeedMetaLabel(t *testing.T) {
	assert.Equal(t, "5,000", SeedMetaLabel(5000, testBrackets))
	assert.Equal(t, "5,000", SeedMetaLabel(12345, testBrackets))
	assert.Equal(t, "2,000", SeedMetaLabel(4999, testBrackets))
	assert.Equal(t, NoTierLabel, SeedMetaLabel(1999, testBrackets))
	assert.Equal(t, NoTierLabel, SeedMetaLabel(0, nil))
}

func TestSelectionSymmetry(t *testing.T) {
	// The bracket behind the payout and the bracket behind the label must be
	// the same one for every seed count.
	byLabel := map[string]float64{
		FormatSeeds(2000): 1.50,
		FormatSeeds(5000): 3.50,
		NoTierLabel:       0,
	}

	for seeds := 0.0; seeds <= 12000; seeds += 97 {
		label := SeedMetaLabel(seeds, testBrackets)
		payout := ComputeCommission(seeds, 44, testBrackets)
		want, ok := byLabel[label]
		require.Truef(t, ok, "unexpected label %q at seeds=%v", label, seeds)
		assert.Equalf(t, want, payout, "label %q and payout diverge at seeds=%v", label, seeds)
	}
}

func TestEngineIsIdempotent(t *testing.T) {
	set := sampleBillingSet(primitive.NewObjectID(), "2025-01")
	first := ComputeStatistics(set, testBrackets)
	second := ComputeStatistics(set, testBrackets)
	assert.Equal(t, first, second)

	assert.Equal(t,
		ComputeCommission(5000, 44, testBrackets),
		ComputeCommission(5000, 44, testBrackets))
}

func sampleBillingSet(recruiterID primitive.ObjectID, month string) []models.Emitter {
	return []models.Emitter{
		{ID: primitive.NewObjectID(), RecruiterID: recruiterID, Month: month, Hours: 10, Seeds: 0},
		{ID: primitive.NewObjectID(), RecruiterID: recruiterID, Month: month, Hours: 44, Seeds: 2000},
		{ID: primitive.NewObjectID(), RecruiterID: recruiterID, Month: month, Hours: 50, Seeds: 6000},
	}
}

func TestComputeStatistics(t *testing.T) {
	set := sampleBillingSet(primitive.NewObjectID(), "2025-01")
	stats := ComputeStatistics(set, testBrackets)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.NonProductive)
	assert.Equal(t, 2, stats.HourGoalMet)
	assert.Equal(t, 2, stats.SeedGoalMet)
	assert.InDelta(t, 5.00, stats.TotalPayment, 1e-9)
}

func TestComputeStatisticsEmptySet(t *testing.T) {
	stats := ComputeStatistics(nil, testBrackets)
	assert.Equal(t, models.CommissionStatistics{}, stats)
}

func TestComputeStatisticsConsistency(t *testing.T) {
	set := sampleBillingSet(primitive.NewObjectID(), "2025-03")
	stats := ComputeStatistics(set, testBrackets)

	assert.LessOrEqual(t, stats.HourGoalMet, stats.Total)
	assert.LessOrEqual(t, stats.SeedGoalMet, stats.HourGoalMet)
	assert.LessOrEqual(t, stats.NonProductive+stats.HourGoalMet, stats.Total,
		"hours<20 and hours>=44 are disjoint ranges")

	var sum float64
	for _, e := range set {
		sum += ComputeCommission(e.Seeds, e.Hours, testBrackets)
	}
	assert.Equal(t, sum, stats.TotalPayment)
}

func TestFilterBillingSet(t *testing.T) {
	recruiter := primitive.NewObjectID()
	other := primitive.NewObjectID()
	mine := sampleBillingSet(recruiter, "2025-01")

	all := append([]models.Emitter{}, mine...)
	all = append(all,
		models.Emitter{ID: primitive.NewObjectID(), RecruiterID: other, Month: "2025-01", Hours: 50, Seeds: 9000},
		models.Emitter{ID: primitive.NewObjectID(), RecruiterID: recruiter, Month: "2024-12", Hours: 50, Seeds: 9000},
	)

	billing := FilterBillingSet(all, "2025-01", recruiter, nil)
	assert.Len(t, billing, 3)
	for _, e := range billing {
		assert.Equal(t, recruiter, e.RecruiterID)
		assert.Equal(t, "2025-01", e.Month)
	}
}

func TestFilterBillingSetExclusion(t *testing.T) {
	recruiter := primitive.NewObjectID()
	set := sampleBillingSet(recruiter, "2025-01")
	topEarner := set[2].ID

	excluded := map[primitive.ObjectID]bool{topEarner: true}
	billing := FilterBillingSet(set, "2025-01", recruiter, excluded)

	assert.Len(t, billing, 2)
	for _, e := range billing {
		assert.NotEqual(t, topEarner, e.ID)
	}

	stats := ComputeStatistics(billing, testBrackets)
	assert.Equal(t, 2, stats.Total)
	assert.InDelta(t, 1.50, stats.TotalPayment, 1e-9)
}

func TestBuildPayouts(t *testing.T) {
	set := sampleBillingSet(primitive.NewObjectID(), "2025-01")
	payouts := BuildPayouts(set, testBrackets)

	require.Len(t, payouts, 3)
	assert.Equal(t, 0.0, payouts[0].Amount)
	assert.Equal(t, NoTierLabel, payouts[0].MetaLabel)
	assert.Equal(t, 1.50, payouts[1].Amount)
	assert.Equal(t, "2,000", payouts[1].MetaLabel)
	assert.Equal(t, 3.50, payouts[2].Amount)
	assert.Equal(t, "5,000", payouts[2].MetaLabel)
}

func TestFormatSeeds(t *testing.T) {
	assert.Equal(t, "0", FormatSeeds(0))
	assert.Equal(t, "999", FormatSeeds(999))
	assert.Equal(t, "2,000", FormatSeeds(2000))
	assert.Equal(t, "1,234,567", FormatSeeds(1234567))
	assert.Equal(t, "1,500.5", FormatSeeds(1500.5))
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "3.50", FormatUSD(3.5))
	assert.Equal(t, "0.00", FormatUSD(0))
	assert.Equal(t, "5.00", FormatUSD(5))
}
