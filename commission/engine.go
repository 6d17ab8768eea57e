// Package commission computes per-emitter payouts and billing-period
// statistics. Everything in here is pure: no I/O, no ambient state, identical
// output for identical input.
package commission

import (
	"sort"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/seedtalent/agency_backend/models"
)

const (
	// HourGoal is the monthly hours an emitter must reach before any seed
	// bracket pays out. Below it the payout is zero regardless of seeds.
	HourGoal = 44.0

	// NonProductiveLimit marks an emitter as non-productive for reporting.
	NonProductiveLimit = 20.0

	// NoTierLabel is returned by SeedMetaLabel when no bracket qualifies.
	NoTierLabel = "No tier"
)

// matchBracket selects the bracket with the greatest seeds threshold such
// that threshold <= seeds. Both payout and label lookups go through here so
// the two can never disagree on the selected tier.
func matchBracket(seeds float64, brackets []models.CommissionBracket) (models.CommissionBracket, bool) {
	sorted := make([]models.CommissionBracket, len(brackets))
	copy(sorted, brackets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Seeds > sorted[j].Seeds
	})

	for _, b := range sorted {
		if b.Seeds <= seeds {
			return b, true
		}
	}
	return models.CommissionBracket{}, false
}

// ComputeCommission returns the payout in USD for one emitter. The hours gate
// is absolute and checked first; otherwise the payout is exactly the matched
// bracket's usd value, with no interpolation between brackets.
func ComputeCommission(seeds, hours float64, brackets []models.CommissionBracket) float64 {
	if hours < HourGoal {
		return 0
	}
	bracket, ok := matchBracket(seeds, brackets)
	if !ok {
		return 0
	}
	return bracket.USD
}

// SeedMetaLabel returns the display label of the tier a seed count falls in,
// using the same selection rule as ComputeCommission, or NoTierLabel when no
// bracket qualifies.
func SeedMetaLabel(seeds float64, brackets []models.CommissionBracket) string {
	bracket, ok := matchBracket(seeds, brackets)
	if !ok {
		return NoTierLabel
	}
	return FormatSeeds(bracket.Seeds)
}

// FilterBillingSet returns the emitters billable for one recruiter and cohort
// month, dropping any emitter whose id is in the exclusion set.
func FilterBillingSet(emitters []models.Emitter, month string, recruiterID primitive.ObjectID, excluded map[primitive.ObjectID]bool) []models.Emitter {
	billing := make([]models.Emitter, 0, len(emitters))
	for _, e := range emitters {
		if e.Month != month || e.RecruiterID != recruiterID {
			continue
		}
		if excluded[e.ID] {
			continue
		}
		billing = append(billing, e)
	}
	return billing
}

// ComputeStatistics aggregates a billing set. TotalPayment is the sum of
// ComputeCommission over the set; an empty set yields all zeros.
func ComputeStatistics(billingSet []models.Emitter, brackets []models.CommissionBracket) models.CommissionStatistics {
	var stats models.CommissionStatistics
	stats.Total = len(billingSet)

	for _, e := range billingSet {
		if e.Hours < NonProductiveLimit {
			stats.NonProductive++
		}
		if e.Hours >= HourGoal {
			stats.HourGoalMet++
			if _, ok := matchBracket(e.Seeds, brackets); ok {
				stats.SeedGoalMet++
			}
		}
		stats.TotalPayment += ComputeCommission(e.Seeds, e.Hours, brackets)
	}
	return stats
}

// BuildPayouts produces the per-emitter rows of the commission report.
func BuildPayouts(billingSet []models.Emitter, brackets []models.CommissionBracket) []models.EmitterPayout {
	payouts := make([]models.EmitterPayout, 0, len(billingSet))
	for _, e := range billingSet {
		payouts = append(payouts, models.EmitterPayout{
			Emitter:   e,
			Amount:    ComputeCommission(e.Seeds, e.Hours, brackets),
			MetaLabel: SeedMetaLabel(e.Seeds, brackets),
		})
	}
	return payouts
}

// FormatSeeds renders a seed threshold with thousands separators, e.g. 5000
// becomes "5,000".
func FormatSeeds(seeds float64) string {
	s := strconv.FormatFloat(seeds, 'f', -1, 64)

	intPart, fracPart := s, ""
	if idx := strings.Index(s, "."); idx >= 0 {
		intPart, fracPart = s[:idx], s[idx:]
	}

	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}

	var out strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(d)
	}
	return sign + out.String() + fracPart
}

// FormatUSD renders a monetary amount with exactly two decimal digits.
func FormatUSD(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
