package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/stockiq/backend-go/internal/analysis"
	"github.com/stockiq/backend-go/internal/config"
	"github.com/stockiq/backend-go/internal/inference"
	"github.com/stockiq/backend-go/internal/ingest"
	"github.com/stockiq/backend-go/internal/intent"
	"github.com/stockiq/backend-go/internal/sufficiency"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newRunner() *Runner {
	return New(config.AnalysisConfig{ForecastDays: 7}, nil)
}

const salesCSV = `product_id,date,units_sold,stock
A,2024-01-01,10,5
A,2024-01-02,10,5
A,2024-01-03,10,5
A,2024-01-04,10,5
B,2024-01-01,10,100
B,2024-01-02,10,100
B,2024-01-03,10,100
B,2024-01-04,10,100
`

func TestRunEndToEnd(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)

	outcome := newRunner().Run(context.Background(), path)

	require.Equal(t, intent.StatusValid, outcome.Validation.Status)
	assert.Equal(t, "csv", outcome.Validation.FileType)
	require.NotNil(t, outcome.Sufficiency)
	assert.Equal(t, sufficiency.StatusSufficient, outcome.Sufficiency.Status)

	require.NotNil(t, outcome.Report)
	require.Equal(t, inference.StatusReady, outcome.Report.Status)
	require.Len(t, outcome.Report.Analytics.Products, 2)

	// Product A is nearly out of stock against steady demand; product B
	// holds enough to cover the whole forecast window.
	a := outcome.Report.Analytics.Products[0]
	assert.Equal(t, "A", a.ProductID)
	assert.Equal(t, analysis.ActionReorder, a.Decision)
	assert.Equal(t, 79, a.Quantity)

	b := outcome.Report.Analytics.Products[1]
	assert.Equal(t, "B", b.ProductID)
	assert.Equal(t, analysis.ActionWait, b.Decision)
	assert.Equal(t, 0, b.Quantity)
}

func TestRunEndToEndXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{"product_id", "date", "units_sold", "stock"},
		{"A", "2024-01-01", 10, 5},
		{"A", "2024-01-02", 10, 5},
		{"B", "2024-01-01", 10, 100},
		{"B", "2024-01-02", 10, 100},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, f.SaveAs(path))

	outcome := newRunner().Run(context.Background(), path)

	require.Equal(t, intent.StatusValid, outcome.Validation.Status)
	assert.Equal(t, "excel", outcome.Validation.FileType)
	require.NotNil(t, outcome.Report)
	require.Equal(t, inference.StatusReady, outcome.Report.Status)
	require.Len(t, outcome.Report.Analytics.Products, 2)
	assert.Equal(t, analysis.ActionReorder, outcome.Report.Analytics.Products[0].Decision)
	assert.Equal(t, analysis.ActionWait, outcome.Report.Analytics.Products[1].Decision)
}

func TestRunRejectsUnsupportedExtension(t *testing.T) {
	outcome := newRunner().Run(context.Background(), "report.docx")

	require.Equal(t, intent.StatusInvalid, outcome.Validation.Status)
	assert.Equal(t, ingest.ReasonUnsupportedFormat, outcome.Validation.Reason)
	assert.Nil(t, outcome.Sufficiency)
	assert.Nil(t, outcome.Report)
}

func TestRunMissingFile(t *testing.T) {
	outcome := newRunner().Run(context.Background(), filepath.Join(t.TempDir(), "gone.csv"))

	require.Equal(t, intent.StatusInvalid, outcome.Validation.Status)
	assert.Equal(t, ingest.ReasonFileNotFound, outcome.Validation.Reason)
}

func TestRunStopsAtIntentGate(t *testing.T) {
	path := writeFile(t, "staff.csv",
		"employee,salary,hire_date\nAlice,50000,2020-03-01\nBob,60000,2019-07-15\n")

	outcome := newRunner().Run(context.Background(), path)

	require.Equal(t, intent.StatusInvalid, outcome.Validation.Status)
	assert.Equal(t,
		"This document does not appear to be related to inventory or sales data.",
		outcome.Validation.Reason)
	assert.Nil(t, outcome.Sufficiency)
	assert.Nil(t, outcome.Report)
}

func TestRunStopsAtSufficiencyGate(t *testing.T) {
	path := writeFile(t, "single.csv", "product_id,quantity,date\nP1,10,2024-01-01\n")

	outcome := newRunner().Run(context.Background(), path)

	require.Equal(t, intent.StatusValid, outcome.Validation.Status)
	require.NotNil(t, outcome.Sufficiency)
	assert.Equal(t, sufficiency.StatusInsufficient, outcome.Sufficiency.Status)
	assert.Equal(t,
		"The file contains only a single record. Multiple records are needed for meaningful analysis.",
		outcome.Sufficiency.Reason)
	assert.Nil(t, outcome.Report)
}

func TestRunTextDocumentStopsAfterValidation(t *testing.T) {
	path := writeFile(t, "notes.txt",
		"inventory report\nproduct a sold 10 units on 2024-01-02\nproduct b sold 5 units on 2024-01-03\n")

	outcome := newRunner().Run(context.Background(), path)

	require.Equal(t, intent.StatusValid, outcome.Validation.Status)
	assert.Equal(t, "text", outcome.Validation.FileType)
	assert.Nil(t, outcome.Sufficiency)
	assert.Nil(t, outcome.Report)
}

type memoryCache struct {
	store map[string][]byte
	hits  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, hash string) ([]byte, bool, error) {
	payload, ok := c.store[hash]
	if ok {
		c.hits++
	}
	return payload, ok, nil
}

func (c *memoryCache) Set(_ context.Context, hash string, payload []byte) error {
	c.store[hash] = payload
	return nil
}

func TestRunServesCachedOutcome(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)
	cache := newMemoryCache()
	runner := New(config.AnalysisConfig{ForecastDays: 7}, cache)

	first := runner.Run(context.Background(), path)
	require.Len(t, cache.store, 1)
	assert.Equal(t, 0, cache.hits)

	second := runner.Run(context.Background(), path)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first.Validation, second.Validation)
	require.NotNil(t, second.Report)
	assert.Equal(t, first.Report.Analytics.Products, second.Report.Analytics.Products)
}

func TestRunIdenticalContentSharesCacheEntry(t *testing.T) {
	cache := newMemoryCache()
	runner := New(config.AnalysisConfig{ForecastDays: 7}, cache)

	runner.Run(context.Background(), writeFile(t, "one.csv", salesCSV))
	runner.Run(context.Background(), writeFile(t, "two.csv", salesCSV))

	assert.Len(t, cache.store, 1)
	assert.Equal(t, 1, cache.hits)
}
