package cmd

import (
	"fmt"

	"quantreport/api"
	"quantreport/internal/app"
	"quantreport/internal/repository"
	"quantreport/internal/service"
	"quantreport/internal/util"
)

func InitializeDependencies() (*api.ApiHandler, error) {
	secrets, err := util.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	dictionaryRepository, err := repository.NewSecurityDictionaryRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to load security dictionary: %w", err)
	}
	marketDataRepository := repository.NewMarketDataRepository()
	indexRepository := repository.NewBenchmarkIndexRepository(marketDataRepository)
	gptRepository := repository.NewGptRepository(secrets.LLM)

	reportApp := app.NewReportApp(
		service.NewAssetMatcherService(dictionaryRepository),
		service.NewSeriesLoaderService(marketDataRepository),
		service.NewDataReconciler(),
		service.NewAnalyticsSynthesizer(indexRepository),
		service.NewReportComposer(gptRepository),
	)

	return &api.ApiHandler{
		ReportApp: reportApp,
	}, nil
}
