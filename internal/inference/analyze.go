package inference

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/stockiq/backend-go/internal/analysis"
	"github.com/stockiq/backend-go/internal/patterns"
	"github.com/stockiq/backend-go/internal/table"
)

type Status string

const (
	StatusReady Status = "ready"
	StatusError Status = "error"
)

// Analytics aggregates the per-product results. AnalyzedProducts can be
// lower than TotalProducts because of the product cap and per-product
// skips; callers surface both so the truncation is never silent.
type Analytics struct {
	Products         []analysis.Result `json:"products"`
	TotalProducts    int               `json:"total_products"`
	AnalyzedProducts int               `json:"analyzed_products"`
}

// Report is the combined outcome of structure inference and the decision
// engine for one table.
type Report struct {
	Status           Status      `json:"status"`
	Message          string      `json:"message,omitempty"`
	Reason           string      `json:"reason,omitempty"`
	Analytics        *Analytics  `json:"analytics,omitempty"`
	RoleMapping      RoleMapping `json:"role_mapping,omitempty"`
	DataType         string      `json:"data_type,omitempty"`
	IdentifiedFields []string    `json:"identified_fields,omitempty"`
}

// Stager receives the canonical datasets for optional scratch staging.
type Stager interface {
	Stage(ds *analysis.Datasets) error
}

// Analyzer runs structure inference plus the per-product decision engine
// over a table that has passed both validation gates.
type Analyzer struct {
	Registry     *patterns.Registry
	ForecastDays int
	MaxProducts  int
	WorkerCount  int
	// Suppliers optionally carries caller-provided supplier terms; defaults
	// are synthesized per product when empty.
	Suppliers []analysis.SupplierTerms
	// Stager optionally dumps the canonical datasets for inspection.
	Stager Stager
}

const (
	defaultMaxProducts = 10
	defaultWorkerCount = 4
)

func errorReport(reason string) Report {
	return Report{Status: StatusError, Reason: reason}
}

// Analyze infers roles, builds the canonical datasets, and computes one
// decision per product. A product that fails individually is dropped from
// the result set; the batch fails wholesale only when no product succeeds.
func (a *Analyzer) Analyze(ctx context.Context, tbl *table.Table) Report {
	if tbl == nil || len(tbl.Columns) == 0 || tbl.NumRows() == 0 {
		return errorReport("No data available for analysis.")
	}

	mapping := InferRoles(a.Registry, tbl)
	if err := ValidateRequiredRoles(mapping); err != nil {
		return errorReport(err.Error())
	}

	ds, err := BuildDatasets(tbl, mapping, a.Suppliers)
	if err != nil {
		return errorReport(err.Error())
	}

	if a.Stager != nil {
		if err := a.Stager.Stage(ds); err != nil {
			log.Warn().Err(err).Msg("inference: staging canonical datasets failed")
		}
	}

	if err := CheckReadiness(ds); err != nil {
		return errorReport(err.Error())
	}

	ids := ds.ProductIDs()
	total := len(ids)
	maxProducts := a.MaxProducts
	if maxProducts <= 0 {
		maxProducts = defaultMaxProducts
	}
	if len(ids) > maxProducts {
		ids = ids[:maxProducts]
	}

	results := a.runProducts(ctx, ds, ids)
	if len(results) == 0 {
		return errorReport("Unable to generate analytics for any products. The data may contain inconsistencies.")
	}

	return Report{
		Status:  StatusReady,
		Message: "Data successfully analyzed. Dashboard generated.",
		Analytics: &Analytics{
			Products:         results,
			TotalProducts:    total,
			AnalyzedProducts: len(results),
		},
		RoleMapping:      mapping,
		DataType:         mapping.DataType(),
		IdentifiedFields: mapping.IdentifiedFields(),
	}
}

// runProducts fans the per-product analyses out over a bounded worker
// group. Iterations share no mutable state; each writes only its own slot
// and results are merged afterward in input order.
func (a *Analyzer) runProducts(ctx context.Context, ds *analysis.Datasets, ids []string) []analysis.Result {
	workers := a.WorkerCount
	if workers <= 0 {
		workers = defaultWorkerCount
	}

	slots := make([]*analysis.Result, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, pid := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return nil
			}
			result, err := analysis.Run(ds, pid, a.ForecastDays)
			if err != nil {
				// Failure is isolated to this product.
				log.Warn().Err(err).Str("product_id", pid).Msg("inference: product analysis skipped")
				return nil
			}
			slots[i] = &result
			return nil
		})
	}
	_ = g.Wait()

	results := make([]analysis.Result, 0, len(ids))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results
}
