package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := parseDate("2026-06-30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), got)

	got, err = parseDate("2026-06-30T12:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 12, got.Hour())

	_, err = parseDate("30/06/2026")
	assert.Error(t, err)
}

func TestParseWindow(t *testing.T) {
	start, end, err := parseWindow("2026-01-01", "2026-06-30")
	require.NoError(t, err)
	assert.True(t, start.Before(end))

	_, _, err = parseWindow("2026-06-30", "2026-01-01")
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Ngày kết thúc phải sau ngày bắt đầu", serr.Message)

	_, _, err = parseWindow("soon", "2026-01-01")
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Ngày bắt đầu không hợp lệ", serr.Message)
}
