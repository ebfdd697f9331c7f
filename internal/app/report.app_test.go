package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"quantreport/internal/domain"
	mock_repository "quantreport/internal/repository/mocks"
	"quantreport/internal/service"
	"quantreport/internal/util"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type appMocks struct {
	dictionary *mock_repository.MockSecurityDictionaryRepository
	marketData *mock_repository.MockMarketDataRepository
	indexRepo  *mock_repository.MockBenchmarkIndexRepository
	gpt        *mock_repository.MockGptRepository
}

func newTestApp(t *testing.T) (ReportApp, appMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mocks := appMocks{
		dictionary: mock_repository.NewMockSecurityDictionaryRepository(ctrl),
		marketData: mock_repository.NewMockMarketDataRepository(ctrl),
		indexRepo:  mock_repository.NewMockBenchmarkIndexRepository(ctrl),
		gpt:        mock_repository.NewMockGptRepository(ctrl),
	}

	reportApp := NewReportApp(
		service.NewAssetMatcherService(mocks.dictionary),
		service.NewSeriesLoaderService(mocks.marketData),
		service.NewDataReconciler(),
		service.NewAnalyticsSynthesizer(mocks.indexRepo),
		service.NewReportComposer(mocks.gpt),
	)
	reportApp.(*reportAppHandler).Now = func() time.Time {
		return util.NewDate(2025, 6, 1)
	}
	return reportApp, mocks
}

func validInput() GenerateReportInput {
	return GenerateReportInput{
		Algorithm: domain.AlgorithmQuantum,
		Variables: &domain.Variables{
			Goals:  []string{"稳健增值"},
			Assets: []string{"贵州茅台"},
			Risks:  []string{"中等风险"},
		},
		OptimizationResult: &domain.OptimizationResult{
			Algorithm: domain.AlgorithmQuantum,
		},
	}
}

func TestReportApp_GenerateReport(t *testing.T) {
	ctx := context.Background()

	t.Run("missing optimization result fails before any collaborator call", func(t *testing.T) {
		reportApp, _ := newTestApp(t)
		// mocks carry zero expectations, so any call fails the test

		in := validInput()
		in.OptimizationResult = nil

		_, err := reportApp.GenerateReport(ctx, in)
		require.Error(t, err)
		require.True(t, errors.Is(err, domain.ErrMissingInput))
	})

	t.Run("missing variables fails the same way", func(t *testing.T) {
		reportApp, _ := newTestApp(t)

		in := validInput()
		in.Variables = nil

		_, err := reportApp.GenerateReport(ctx, in)
		require.True(t, errors.Is(err, domain.ErrMissingInput))

		in.Variables = &domain.Variables{}
		_, err = reportApp.GenerateReport(ctx, in)
		require.True(t, errors.Is(err, domain.ErrMissingInput))
	})

	t.Run("degraded collaborators still produce a complete report", func(t *testing.T) {
		reportApp, mocks := newTestApp(t)

		noMatch := domain.NoMatch("贵州茅台", "no dictionary entry matched")
		mocks.dictionary.EXPECT().
			MatchAsset(gomock.Any(), "贵州茅台").
			Return(&noMatch, nil)
		mocks.indexRepo.EXPECT().
			GetIndexSeries(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("index feed down")).
			Times(5)
		mocks.gpt.EXPECT().
			GenerateNarrative(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", fmt.Errorf("no api key"))

		report, err := reportApp.GenerateReport(ctx, validInput())
		require.NoError(t, err)
		require.NotNil(t, report)

		require.Len(t, report.AssetTable, 1)
		require.Equal(t, domain.DataSourceNotMatched, report.AssetTable[0].DataSource)
		require.NotEmpty(t, report.Title)
		require.NotEmpty(t, report.ExecutiveSummary)
		require.NotEmpty(t, report.Recommendations)
		require.Equal(t, domain.ProvenanceSimulated, report.ChartData.PortfolioChart.Provenance)
		require.Len(t, report.ChartData.IndexComparison.Indices, 5)
	})

	t.Run("confirmed allocation weights flow into the asset table", func(t *testing.T) {
		reportApp, mocks := newTestApp(t)

		noMatchA := domain.NoMatch("资产A", "no dictionary entry matched")
		noMatchB := domain.NoMatch("资产B", "no dictionary entry matched")
		mocks.dictionary.EXPECT().
			MatchAsset(gomock.Any(), "资产A").Return(&noMatchA, nil)
		mocks.dictionary.EXPECT().
			MatchAsset(gomock.Any(), "资产B").Return(&noMatchB, nil)
		mocks.indexRepo.EXPECT().
			GetIndexSeries(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("down")).
			AnyTimes()
		mocks.gpt.EXPECT().
			GenerateNarrative(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", fmt.Errorf("down"))

		in := validInput()
		in.AssetAllocation = []domain.AllocationItem{
			{Name: "资产A", Weight: 0.6, Confidence: 0.9},
			{Name: "资产B", Weight: 0.4, Confidence: 0.8},
		}

		report, err := reportApp.GenerateReport(ctx, in)
		require.NoError(t, err)

		require.Len(t, report.AssetTable, 2)
		require.InDelta(t, 60.0, report.AssetTable[0].WeightBefore, 1e-9)
		require.InDelta(t, 40.0, report.AssetTable[1].WeightBefore, 1e-9)
	})

	t.Run("pipeline stages are profiled", func(t *testing.T) {
		reportApp, mocks := newTestApp(t)

		noMatch := domain.NoMatch("贵州茅台", "no dictionary entry matched")
		mocks.dictionary.EXPECT().
			MatchAsset(gomock.Any(), gomock.Any()).Return(&noMatch, nil)
		mocks.indexRepo.EXPECT().
			GetIndexSeries(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("down")).
			AnyTimes()
		mocks.gpt.EXPECT().
			GenerateNarrative(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", fmt.Errorf("down"))

		profile, endProfile := domain.NewProfile()
		ctx := domain.NewCtxWithProfile(context.Background(), profile)

		_, err := reportApp.GenerateReport(ctx, validInput())
		require.NoError(t, err)
		endProfile()

		names := []string{}
		for _, span := range profile.Spans {
			names = append(names, span.Name)
		}
		require.Equal(t, []string{
			"match assets",
			"load series",
			"reconcile",
			"synthesize charts",
			"compose report",
		}, names)
	})
}
