package utils

import (
	"errors"
	"time"
)

// Cohort months are always "YYYY-MM".
const monthLayout = "2006-01"

// CurrentMonth returns the cohort key for the current month.
func CurrentMonth() string {
	return time.Now().Format(monthLayout)
}

// ValidateMonth checks a cohort month key.
func ValidateMonth(month string) error {
	if len(month) != len(monthLayout) {
		return errors.New("month must be in YYYY-MM format")
	}
	if _, err := time.Parse(monthLayout, month); err != nil {
		return errors.New("month must be in YYYY-MM format")
	}
	return nil
}
