package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

func TestAggregateBy_CategorySumsMatchRevenue(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 42} {
		view := generated(t, 365, seed)

		table, err := AggregateBy(view, models.DimensionCategory)
		require.NoError(t, err)

		var sum float64
		for _, row := range table.Rows {
			sum += row.Revenue
		}
		assert.InDelta(t, ComputeMetrics(view).TotalRevenue, sum, 1e-6, "seed %d", seed)
	}
}

func TestAggregateBy_Category(t *testing.T) {
	view := []models.Transaction{
		sale("V1", day(2024, 1, 1), 100, category("Books"), quantity(2), discount(10)),
		sale("V2", day(2024, 1, 2), 300, category("Toys"), quantity(1), discount(0)),
		sale("V3", day(2024, 1, 3), 50, category("Books"), quantity(4), discount(25)),
		sale("V4", day(2024, 1, 4), 900, category("Books"), status(models.StatusCancelled)),
	}

	table, err := AggregateBy(view, models.DimensionCategory)
	require.NoError(t, err)
	assert.Equal(t, models.DimensionCategory, table.Dimension)
	assert.Equal(t, []models.AggregateRow{
		{Key: "Toys", Revenue: 300, MeanTicket: 300, Sales: 1, Units: 1},
		{Key: "Books", Revenue: 150, MeanTicket: 75, Sales: 2, Units: 6, MeanDiscountPct: 17.5},
	}, table.Rows)
}

func TestAggregateBy_RegionCountsDistinctCities(t *testing.T) {
	view := []models.Transaction{
		sale("V1", day(2024, 1, 1), 10, region("South", "Curitiba")),
		sale("V2", day(2024, 1, 2), 10, region("South", "Curitiba")),
		sale("V3", day(2024, 1, 3), 10, region("South", "Porto Alegre")),
		sale("V4", day(2024, 1, 4), 5, region("North", "Manaus")),
	}

	table, err := AggregateBy(view, models.DimensionRegion)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "South", table.Rows[0].Key)
	assert.Equal(t, 2, table.Rows[0].Cities)
	assert.Equal(t, 1, table.Rows[1].Cities)
}

func TestAggregateBy_PaymentShares(t *testing.T) {
	view := []models.Transaction{
		sale("V1", day(2024, 1, 1), 100, payment(models.PaymentPIX)),
		sale("V2", day(2024, 1, 2), 200, payment(models.PaymentCreditCard)),
		sale("V3", day(2024, 1, 3), 100, payment(models.PaymentCreditCard)),
	}

	table, err := AggregateBy(view, models.DimensionPaymentMethod)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "CreditCard", table.Rows[0].Key)
	assert.Equal(t, 75.0, table.Rows[0].SharePercent)
	assert.Equal(t, 25.0, table.Rows[1].SharePercent)
}

func TestAggregateBy_NoCompletedSales(t *testing.T) {
	view := []models.Transaction{
		sale("V1", day(2024, 1, 1), 100, status(models.StatusPending)),
	}
	for _, dim := range []models.Dimension{
		models.DimensionCategory, models.DimensionRegion, models.DimensionPaymentMethod, models.DimensionSeller,
	} {
		table, err := AggregateBy(view, dim)
		require.NoError(t, err)
		assert.Empty(t, table.Rows, "dimension %s", dim)
		assert.NotNil(t, table.Rows)
	}
}

func TestAggregateBy_UnknownDimension(t *testing.T) {
	for _, dim := range []models.Dimension{"colour", models.DimensionTime} {
		_, err := AggregateBy(nil, dim)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeValidation))
	}
}

func TestTopN_SellersWithTies(t *testing.T) {
	view := []models.Transaction{
		sale("V1", day(2024, 1, 1), 100, seller("Seller 4")),
		sale("V2", day(2024, 1, 2), 300, seller("Seller 2")),
		sale("V3", day(2024, 1, 3), 200, seller("Seller 5")),
		sale("V4", day(2024, 1, 4), 200, seller("Seller 1")),
		sale("V5", day(2024, 1, 5), 50, seller("Seller 3")),
	}

	table, err := TopN(view, models.DimensionSeller, 3)
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	keys := []string{table.Rows[0].Key, table.Rows[1].Key, table.Rows[2].Key}
	assert.Equal(t, []string{"Seller 2", "Seller 5", "Seller 1"}, keys)
	assert.GreaterOrEqual(t, table.Rows[0].Revenue, table.Rows[1].Revenue)
	assert.GreaterOrEqual(t, table.Rows[1].Revenue, table.Rows[2].Revenue)
}

func TestTopN_LargerThanGroups(t *testing.T) {
	view := []models.Transaction{sale("V1", day(2024, 1, 1), 10)}
	table, err := TopN(view, models.DimensionSeller, 10)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}

func TestTopN_RejectsNonPositive(t *testing.T) {
	for _, n := range []int{0, -3} {
		_, err := TopN(nil, models.DimensionSeller, n)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeValidation))
	}
}

func TestAggregateByTime_MonthZeroFillsGaps(t *testing.T) {
	view := []models.Transaction{
		sale("V1", day(2024, 1, 20), 100),
		sale("V2", day(2024, 1, 5), 50),
		sale("V3", day(2024, 4, 2), 30),
		sale("V4", day(2024, 2, 2), 999, status(models.StatusCancelled)),
	}

	table, err := AggregateByTime(view, models.GranularityMonth)
	require.NoError(t, err)
	assert.Equal(t, models.DimensionTime, table.Dimension)
	assert.Equal(t, models.GranularityMonth, table.Granularity)

	require.Len(t, table.Rows, 4)
	wantKeys := []string{"2024-01", "2024-02", "2024-03", "2024-04"}
	for i, row := range table.Rows {
		assert.Equal(t, wantKeys[i], row.Key)
		require.NotNil(t, row.PeriodStart)
	}
	assert.Equal(t, 150.0, table.Rows[0].Revenue)
	assert.Equal(t, 75.0, table.Rows[0].MeanTicket)
	assert.Equal(t, models.AggregateRow{Key: "2024-02", PeriodStart: table.Rows[1].PeriodStart}, table.Rows[1])
	assert.Equal(t, 30.0, table.Rows[3].Revenue)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *table.Rows[2].PeriodStart)
}

func TestAggregateByTime_Granularities(t *testing.T) {
	// 2024-01-03 is a Wednesday; 2024-01-15 a Monday.
	view := []models.Transaction{
		sale("V1", day(2024, 1, 3), 10),
		sale("V2", day(2024, 1, 15), 20),
		sale("V3", day(2024, 7, 1), 30),
	}

	tests := []struct {
		granularity models.Granularity
		rows        int
		firstKey    string
		firstStart  time.Time
	}{
		{models.GranularityDay, 181, "2024-01-03", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		{models.GranularityWeek, 27, "2024-W01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{models.GranularityMonth, 7, "2024-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{models.GranularityQuarter, 3, "2024-Q1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.granularity), func(t *testing.T) {
			table, err := AggregateByTime(view, tt.granularity)
			require.NoError(t, err)
			require.Len(t, table.Rows, tt.rows)
			assert.Equal(t, tt.firstKey, table.Rows[0].Key)
			assert.Equal(t, tt.firstStart, *table.Rows[0].PeriodStart)

			var total float64
			for i, row := range table.Rows {
				total += row.Revenue
				if i > 0 {
					assert.True(t, table.Rows[i-1].PeriodStart.Before(*row.PeriodStart))
				}
			}
			assert.Equal(t, 60.0, total)
		})
	}
}

func TestAggregateByTime_EmptyAndInvalid(t *testing.T) {
	table, err := AggregateByTime(nil, models.GranularityWeek)
	require.NoError(t, err)
	assert.Empty(t, table.Rows)

	_, err = AggregateByTime(nil, "hourly")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeValidation))
}
