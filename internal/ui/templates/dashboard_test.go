package templates

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/models"
)

func TestDashboard_Render(t *testing.T) {
	opts := models.FilterOptions{
		Statuses:   []models.Status{models.StatusCompleted, models.StatusPending},
		Categories: []string{"Books", "Home & Garden"},
		Regions:    []string{"South"},
		MinDate:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		MaxDate:    time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
	}

	var sb strings.Builder
	require.NoError(t, Dashboard(opts).Render(context.Background(), &sb))
	html := sb.String()

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "datastar@1.0.0-RC.6/bundles/datastar.js")
	assert.Contains(t, html, `data-init="@get('/sse/refresh-all')"`)
	assert.Contains(t, html, `min="2024-01-02" max="2024-12-30"`)
	assert.Contains(t, html, `<option value="quarter">quarter</option>`)
	assert.Contains(t, html, `<option value="Home &amp; Garden">`)
	assert.Contains(t, html, `<option value="Completed">`)
	assert.Contains(t, html, `id="seller-table"`)
	assert.Contains(t, html, `&#34;granularity&#34;:&#34;month&#34;`)
	assert.NotContains(t, html, "Home & Garden<")
}

func TestDashboard_EmptyOptions(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, Dashboard(models.FilterOptions{}).Render(context.Background(), &sb))
	assert.Contains(t, sb.String(), `min="" max=""`)
}

func TestDashboard_EscapesOptionValues(t *testing.T) {
	opts := models.FilterOptions{Regions: []string{`"><script>alert(1)</script>`}}

	var sb strings.Builder
	require.NoError(t, Dashboard(opts).Render(context.Background(), &sb))
	html := sb.String()

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, `<option value="&#34;&gt;&lt;script&gt;alert(1)&lt;/script&gt;">`)
}

func TestDateAttr(t *testing.T) {
	assert.Empty(t, dateAttr(time.Time{}))
	assert.Equal(t, "2024-03-09", dateAttr(time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)))
}
