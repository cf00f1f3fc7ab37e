package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/devsuperior/dscommerce/internal/domains/catalog/application/types"
	"github.com/devsuperior/dscommerce/internal/shared/pagination"
)

type stubProducts struct {
	deleteErr error
}

func (stubProducts) FindByID(context.Context, int64) (*types.ProductDTO, error) {
	return &types.ProductDTO{ID: 1}, nil
}

func (stubProducts) FindAll(context.Context, string, pagination.Pageable) (pagination.Page[types.ProductMinDTO], error) {
	return pagination.Page[types.ProductMinDTO]{}, nil
}

func (stubProducts) Insert(_ context.Context, dto types.ProductDTO) (*types.ProductDTO, error) {
	dto.ID = 10
	return &dto, nil
}

func (stubProducts) Update(_ context.Context, id int64, dto types.ProductDTO) (*types.ProductDTO, error) {
	dto.ID = id
	return &dto, nil
}

func (s stubProducts) Delete(context.Context, int64) error { return s.deleteErr }

func counterTotals(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					out[m.Name] += dp.Value
				}
			}
		}
	}
	return out
}

func TestProductServiceRecordsMutations(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	var logs bytes.Buffer
	svc := NewProductService(stubProducts{}, WithMeter(meter), WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))))
	ctx := context.Background()

	_, err := svc.Insert(ctx, types.ProductDTO{Name: "PlayStation 5"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, 10, types.ProductDTO{Name: "PlayStation 5 Slim"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, 10))

	totals := counterTotals(t, reader)
	assert.Equal(t, int64(1), totals["catalog.products.created"])
	assert.Equal(t, int64(1), totals["catalog.products.updated"])
	assert.Equal(t, int64(1), totals["catalog.products.deleted"])
	assert.Contains(t, logs.String(), "product created")
}

func TestProductServicePassesErrorsThrough(t *testing.T) {
	boom := errors.New("integrity")
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	svc := NewProductService(stubProducts{deleteErr: boom}, WithMeter(meter))

	err := svc.Delete(context.Background(), 3)

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, counterTotals(t, reader)["catalog.products.deleted"])
}
