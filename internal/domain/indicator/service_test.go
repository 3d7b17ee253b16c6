package indicator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/maerl/reporting/internal/domain/errs"
	"github.com/maerl/reporting/internal/domain/indicator"
	"github.com/maerl/reporting/internal/domain/update"
	"github.com/maerl/reporting/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

func TestIndicatorService_Summaries(t *testing.T) {
	ctx := context.Background()
	r, err := update.ParseDateRange("2024-01-01", "2024-12-31")
	require.NoError(t, err)

	repo := &mocks.IndicatorRepository{}
	repo.On("Summaries", ctx, r).Return([]indicator.Summary{
		{Indicator: indicator.Indicator{ID: 1, Code: "II1", Unit: "trees"}, Total: 120000, Updates: 3},
		{Indicator: indicator.Indicator{ID: 2, Code: "II2"}, Total: 1500.5, Updates: 1},
	}, nil)

	svc := indicator.NewService(repo, nil)
	got, err := svc.Summaries(ctx, r)
	require.NoError(t, err)
	require.Equal(t, "120,000 trees", got[0].Display)
	require.Equal(t, "1,500.5", got[1].Display)
}

func TestIndicatorService_ListStoreError(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.IndicatorRepository{}
	repo.On("List", ctx).Return(nil, errors.New("timeout"))

	svc := indicator.NewService(repo, nil)
	_, err := svc.List(ctx)
	require.Equal(t, errs.StoreFailure, errs.KindOf(err))
	require.EqualError(t, err, "timeout")
}
