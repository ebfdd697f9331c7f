package app

import (
	"context"
	"fmt"
	"time"

	"quantreport/internal/domain"
	"quantreport/internal/service"
)

// GenerateReportInput is the report request body. Variables and
// OptimizationResult are required; everything else is optional
// enrichment.
type GenerateReportInput struct {
	Algorithm          domain.Algorithm            `json:"algorithm"`
	Variables          *domain.Variables           `json:"variables"`
	OptimizationResult *domain.OptimizationResult  `json:"optimizationResult"`
	StockData          []domain.SecurityTimeSeries `json:"stockData,omitempty"`
	PortfolioData      *domain.PortfolioData       `json:"portfolioData,omitempty"`
	LLMSettings        *domain.LLMSettings         `json:"llmSettings,omitempty"`
	AssetAllocation    []domain.AllocationItem     `json:"assetAllocation,omitempty"`
}

// ReportApp runs the full synthesis pipeline for one request:
// match, load, reconcile, synthesize, compose. All request state is
// carried through arguments and context; the handler itself is
// stateless and safe for concurrent requests.
type ReportApp interface {
	GenerateReport(ctx context.Context, in GenerateReportInput) (*domain.ReportPayload, error)
}

type reportAppHandler struct {
	AssetMatcherService  service.AssetMatcherService
	SeriesLoaderService  service.SeriesLoaderService
	DataReconciler       service.DataReconciler
	AnalyticsSynthesizer service.AnalyticsSynthesizer
	ReportComposer       service.ReportComposer
	Now                  func() time.Time
}

func NewReportApp(
	assetMatcherService service.AssetMatcherService,
	seriesLoaderService service.SeriesLoaderService,
	dataReconciler service.DataReconciler,
	analyticsSynthesizer service.AnalyticsSynthesizer,
	reportComposer service.ReportComposer,
) ReportApp {
	return &reportAppHandler{
		AssetMatcherService:  assetMatcherService,
		SeriesLoaderService:  seriesLoaderService,
		DataReconciler:       dataReconciler,
		AnalyticsSynthesizer: analyticsSynthesizer,
		ReportComposer:       reportComposer,
		Now:                  time.Now,
	}
}

func (h *reportAppHandler) GenerateReport(ctx context.Context, in GenerateReportInput) (*domain.ReportPayload, error) {
	// input validation happens before any collaborator is touched
	if err := validateInput(in); err != nil {
		return nil, err
	}

	profile := domain.GetProfile(ctx)
	now := h.Now()
	window := domain.LastYear(now)
	descriptors := buildDescriptors(in)

	names := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		names = append(names, d.Name)
	}

	_, endSpan := profile.StartNewSpan("match assets")
	matches := h.AssetMatcherService.MatchAssets(ctx, names)

	_, endSpan = profile.StartNewSpan("load series")
	series := h.SeriesLoaderService.LoadSeries(ctx, matches, in.StockData, window)

	_, endSpan = profile.StartNewSpan("reconcile")
	rows := h.DataReconciler.Reconcile(ctx, service.ReconcileInput{
		Descriptors:  descriptors,
		Matches:      matches,
		Optimization: in.OptimizationResult,
		Series:       series,
	})

	_, endSpan = profile.StartNewSpan("synthesize charts")
	charts := h.AnalyticsSynthesizer.Synthesize(ctx, service.SynthesizeInput{
		Rows:          rows,
		Series:        series,
		Optimization:  in.OptimizationResult,
		PortfolioData: in.PortfolioData,
		Now:           now,
		Seed:          now.UnixNano(),
	})

	_, endSpan = profile.StartNewSpan("compose report")
	settings := domain.LLMSettings{}
	if in.LLMSettings != nil {
		settings = *in.LLMSettings
	}
	payload := h.ReportComposer.Compose(ctx, service.ComposeInput{
		Variables:    *in.Variables,
		Algorithm:    in.Algorithm,
		Optimization: in.OptimizationResult,
		Rows:         rows,
		Charts:       charts,
		Settings:     settings,
	})
	endSpan()

	return &payload, nil
}

func validateInput(in GenerateReportInput) error {
	if in.Variables == nil || in.Variables.Empty() {
		return fmt.Errorf("%w: variables", domain.ErrMissingInput)
	}
	if in.OptimizationResult == nil {
		return fmt.Errorf("%w: optimizationResult", domain.ErrMissingInput)
	}
	return nil
}

// buildDescriptors turns the request into the asset list the pipeline
// operates on. The confirmed allocation wins when present because it
// carries user-declared weights; otherwise the free-text asset names
// from the summary are used alone.
func buildDescriptors(in GenerateReportInput) []domain.AssetDescriptor {
	if len(in.AssetAllocation) > 0 {
		descriptors := make([]domain.AssetDescriptor, 0, len(in.AssetAllocation))
		for _, item := range in.AssetAllocation {
			w := item.Weight
			c := item.Confidence
			descriptors = append(descriptors, domain.AssetDescriptor{
				Name:           item.Name,
				DeclaredWeight: &w,
				Confidence:     &c,
			})
		}
		return descriptors
	}

	descriptors := make([]domain.AssetDescriptor, 0, len(in.Variables.Assets))
	for _, name := range in.Variables.Assets {
		descriptors = append(descriptors, domain.AssetDescriptor{Name: name})
	}
	return descriptors
}
