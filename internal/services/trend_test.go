package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

func TestComputeTrend_Decline(t *testing.T) {
	view := []models.Transaction{
		sale("V1", day(2024, 1, 10), 1000),
		sale("V2", day(2024, 2, 10), 700),
		sale("V3", day(2024, 2, 20), 500),
		sale("V4", day(2024, 3, 10), 1100),
		sale("V5", day(2024, 3, 11), 5000, status(models.StatusCancelled)),
	}

	got := ComputeTrend(view)
	assert.Equal(t, models.TrendSnapshot{
		Status:        models.TrendStatusOK,
		Label:         models.TrendDecline,
		GrowthPercent: -8.33,
		Months:        3,
		LastMonth:     "2024-03",
		LastTotal:     1100,
		PreviousMonth: "2024-02",
		PreviousTotal: 1200,
	}, got)
}

func TestComputeTrend_OrderIndependent(t *testing.T) {
	view := []models.Transaction{
		sale("V1", day(2024, 3, 10), 1100),
		sale("V2", day(2023, 12, 10), 1000),
		sale("V3", day(2024, 1, 10), 1200),
	}
	got := ComputeTrend(view)
	assert.Equal(t, "2024-03", got.LastMonth)
	assert.Equal(t, "2024-01", got.PreviousMonth)
	assert.Equal(t, -8.33, got.GrowthPercent)
}

func TestComputeTrend_BandEdgesUseUnroundedGrowth(t *testing.T) {
	tests := []struct {
		name   string
		last   float64
		growth float64
		label  models.TrendLabel
	}{
		{"just above strong", 105004, 5, models.TrendStrongGrowth},
		{"just above decline", 95004, -5, models.TrendStable},
		{"exactly five", 105000, 5, models.TrendModerateGrowth},
		{"exactly minus five", 95000, -5, models.TrendDecline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTrend([]models.Transaction{
				sale("V1", day(2024, 1, 10), 100000),
				sale("V2", day(2024, 2, 10), tt.last),
			})
			assert.Equal(t, tt.growth, got.GrowthPercent)
			assert.Equal(t, tt.label, got.Label)
		})
	}
}

func TestComputeTrend_InsufficientData(t *testing.T) {
	oneMonth := []models.Transaction{
		sale("V1", day(2024, 5, 1), 10),
		sale("V2", day(2024, 5, 30), 20),
		sale("V3", day(2024, 6, 1), 20, status(models.StatusPending)),
	}

	for name, view := range map[string][]models.Transaction{"empty": nil, "one month": oneMonth} {
		t.Run(name, func(t *testing.T) {
			got := ComputeTrend(view)
			assert.Equal(t, models.TrendStatusInsufficient, got.Status)
			assert.Equal(t, models.TrendInsufficient, got.Label)
			assert.Zero(t, got.GrowthPercent)
		})
	}
}

func TestComputeTrend_ZeroPreviousMonth(t *testing.T) {
	view := []models.Transaction{
		sale("V1", day(2024, 1, 10), 0),
		sale("V2", day(2024, 2, 10), 300),
	}

	got := ComputeTrend(view)
	assert.Equal(t, models.TrendStatusUndefined, got.Status)
	assert.Equal(t, models.TrendUndefined, got.Label)
	assert.Zero(t, got.GrowthPercent)
	assert.Equal(t, 300.0, got.LastTotal)
}

func TestGrowthPercent(t *testing.T) {
	got, err := GrowthPercent(1200, 1100)
	require.NoError(t, err)
	assert.Equal(t, -8.33, got)

	got, err = GrowthPercent(200, 300)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got)

	_, err = GrowthPercent(0, 10)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeDivisionUndefined))
}

func TestClassifyGrowth(t *testing.T) {
	tests := []struct {
		growth float64
		want   models.TrendLabel
	}{
		{50, models.TrendStrongGrowth},
		{5.01, models.TrendStrongGrowth},
		{5, models.TrendModerateGrowth},
		{0.01, models.TrendModerateGrowth},
		{0, models.TrendStable},
		{-4.99, models.TrendStable},
		{-5, models.TrendDecline},
		{-8.33, models.TrendDecline},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyGrowth(tt.growth), "growth %v", tt.growth)
	}
}
