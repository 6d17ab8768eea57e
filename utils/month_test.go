package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateMonth(t *testing.T) {
	assert.NoError(t, ValidateMonth("2025-01"))
	assert.NoError(t, ValidateMonth("1999-12"))

	assert.Error(t, ValidateMonth(""))
	assert.Error(t, ValidateMonth("2025"))
	assert.Error(t, ValidateMonth("2025-13"))
	assert.Error(t, ValidateMonth("2025-00"))
	assert.Error(t, ValidateMonth("2025-1"))
	assert.Error(t, ValidateMonth("01-2025"))
	assert.Error(t, ValidateMonth("2025-01-15"))
}

func TestCurrentMonth(t *testing.T) {
	month := CurrentMonth()
	assert.NoError(t, ValidateMonth(month))
	assert.Equal(t, time.Now().Format("2006-01"), month)
}
