package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"quantreport/internal/domain"
	"quantreport/internal/logger"
	"quantreport/internal/repository"
)

// ReportComposer assembles the final report payload. The asset table
// and chart data pass through untouched; only the narrative involves
// the LLM, and any LLM failure degrades to the deterministic template
// so a report always comes back complete.
type ReportComposer interface {
	Compose(ctx context.Context, in ComposeInput) domain.ReportPayload
}

type ComposeInput struct {
	Variables    domain.Variables
	Algorithm    domain.Algorithm
	Optimization *domain.OptimizationResult
	Rows         []domain.ReconciledAssetRow
	Charts       domain.ChartData
	Settings     domain.LLMSettings
}

type reportComposerHandler struct {
	GptRepository repository.GptRepository
}

func NewReportComposer(gptRepository repository.GptRepository) ReportComposer {
	return &reportComposerHandler{
		GptRepository: gptRepository,
	}
}

func (h *reportComposerHandler) Compose(ctx context.Context, in ComposeInput) domain.ReportPayload {
	log := logger.FromContext(ctx)

	narrative := defaultNarrative(in)

	raw, err := h.GptRepository.GenerateNarrative(ctx, narrativeSystemPrompt, userPrompt(in), in.Settings)
	if err != nil {
		log.Warnw("narrative generation degraded to template", "error", err)
	} else if parsed, parseErr := parseNarrative(raw); parseErr != nil {
		log.Warnw("narrative response unparseable, using template", "error", parseErr)
	} else {
		narrative = mergeNarrative(*parsed, narrative)
	}

	return domain.ReportPayload{
		Narrative:  narrative,
		AssetTable: in.Rows,
		ChartData:  in.Charts,
	}
}

const narrativeSystemPrompt = `你是一位专业的投资顾问和资产配置专家，负责基于量子优化算法的计算结果，为客户生成专业的投资配置报告。

请根据以下信息生成一份详细的投资配置报告，严格按照JSON格式返回：

{
  "title": "报告标题",
  "executiveSummary": "执行摘要（200-300字）",
  "investmentStrategy": "投资策略分析（300-400字）",
  "riskAnalysis": "风险分析（200-300字）",
  "performanceAnalysis": "绩效分析（300-400字）",
  "recommendations": ["建议1", "建议2", "建议3", "建议4", "建议5"],
  "disclaimer": "风险提示和免责声明（100-150字）"
}

报告要求：
1. 语言专业且通俗易懂
2. 数据分析要有说服力
3. 风险提示要全面
4. 建议要具体可操作
5. 保持客观中性的立场
6. 使用中文撰写

请特别关注：
- 优化前后的对比分析
- 夏普比率的改善情况
- 风险分散效果
- 各资产的配置逻辑
- 市场环境对配置的影响`

// userPrompt renders the numeric summary the narrative is written from.
// Only already-computed numbers go in; the LLM never sees raw request
// payloads.
func userPrompt(in ComposeInput) string {
	var b strings.Builder

	b.WriteString("客户投资信息：\n")
	fmt.Fprintf(&b, "投资目标：%s\n", strings.Join(in.Variables.Goals, "，"))
	fmt.Fprintf(&b, "可投资资产：%s\n", strings.Join(in.Variables.Assets, "，"))
	fmt.Fprintf(&b, "风险约束：%s\n\n", strings.Join(in.Variables.Risks, "，"))

	name, description := algorithmDescription(in.Algorithm, in.Optimization)
	fmt.Fprintf(&b, "优化算法：%s\n算法描述：%s\n\n", name, description)

	if in.Optimization != nil && in.Optimization.PortfolioMetrics != nil {
		m := in.Optimization.PortfolioMetrics
		b.WriteString("优化结果：\n")
		fmt.Fprintf(&b, "- 组合预期收益率：%.2f%% → %.2f%%\n", m.ReturnBefore*100, m.ReturnAfter*100)
		fmt.Fprintf(&b, "- 组合夏普比率：%.3f → %.3f\n", m.SharpeBefore, m.SharpeAfter)
		fmt.Fprintf(&b, "- 组合波动率：%.2f%% → %.2f%%\n", m.VolatilityBefore*100, m.VolatilityAfter*100)
		fmt.Fprintf(&b, "- 最大回撤：%.2f%% → %.2f%%\n\n", m.DrawdownBefore*100, m.DrawdownAfter*100)
	}

	b.WriteString("资产配置详情：\n")
	if len(in.Rows) == 0 {
		b.WriteString("暂无资产配置数据\n")
	}
	for _, row := range in.Rows {
		fmt.Fprintf(&b, "%s：%.1f%% → %.1f%%", row.Name, row.WeightBefore, row.WeightAfter)
		if row.ReturnRate != nil {
			fmt.Fprintf(&b, "，收益率%.1f%%", *row.ReturnRate*100)
		}
		if row.SharpeRatio != nil {
			fmt.Fprintf(&b, "，夏普比率%.2f", *row.SharpeRatio)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n请基于以上信息生成专业的投资配置分析报告。")
	return b.String()
}

func algorithmDescription(algorithm domain.Algorithm, opt *domain.OptimizationResult) (string, string) {
	if opt != nil && opt.AlgorithmDetails != nil {
		return opt.AlgorithmDetails.Name, opt.AlgorithmDetails.Description
	}
	if algorithm == domain.AlgorithmQuantum {
		return "QAOA量子算法", "量子近似优化算法，利用量子计算优势进行资产配置优化"
	}
	return "蒙特卡洛算法", "经典蒙特卡洛模拟算法，通过随机采样寻找最优配置"
}

// parseNarrative extracts the JSON narrative from a model response,
// tolerating markdown code fences and surrounding prose.
func parseNarrative(raw string) (*domain.Narrative, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var narrative domain.Narrative
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &narrative); err != nil {
		return nil, fmt.Errorf("unmarshal narrative: %w", err)
	}
	return &narrative, nil
}

// mergeNarrative overlays an LLM narrative on the template so that a
// partially filled response still yields complete prose sections.
func mergeNarrative(llm, fallback domain.Narrative) domain.Narrative {
	out := fallback
	if llm.Title != "" {
		out.Title = llm.Title
	}
	if llm.ExecutiveSummary != "" {
		out.ExecutiveSummary = llm.ExecutiveSummary
	}
	if llm.InvestmentStrategy != "" {
		out.InvestmentStrategy = llm.InvestmentStrategy
	}
	if llm.RiskAnalysis != "" {
		out.RiskAnalysis = llm.RiskAnalysis
	}
	if llm.PerformanceAnalysis != "" {
		out.PerformanceAnalysis = llm.PerformanceAnalysis
	}
	if len(llm.Recommendations) > 0 {
		out.Recommendations = llm.Recommendations
	}
	if llm.Disclaimer != "" {
		out.Disclaimer = llm.Disclaimer
	}
	return out
}

// defaultNarrative is the deterministic offline report. It reads the
// same numbers the LLM prompt does, so the two renditions never
// disagree on facts.
func defaultNarrative(in ComposeInput) domain.Narrative {
	var m domain.PortfolioMetrics
	numAssets := 0
	if in.Optimization != nil {
		numAssets = len(in.Optimization.Assets)
		if in.Optimization.PortfolioMetrics != nil {
			m = *in.Optimization.PortfolioMetrics
		}
	}
	if numAssets == 0 {
		numAssets = len(in.Rows)
	}

	algorithmLabel := "蒙特卡洛"
	if in.Algorithm == domain.AlgorithmQuantum {
		algorithmLabel = "QAOA量子"
	}
	algorithmName, _ := algorithmDescription(in.Algorithm, in.Optimization)

	returnImprovement := (m.ReturnAfter - m.ReturnBefore) * 100
	sharpeImprovement := (m.SharpeAfter - m.SharpeBefore) * 100
	riskReduction := (m.DrawdownBefore - m.DrawdownAfter) * 100

	return domain.Narrative{
		Title: fmt.Sprintf("%s算法资产配置优化报告", algorithmLabel),
		ExecutiveSummary: fmt.Sprintf(
			"基于%s对您的投资组合进行了全面优化。通过分析%d种资产的历史表现和风险特征，我们成功将组合预期收益率从%.2f%%提升至%.2f%%，夏普比率改善%.1f%%，同时将最大回撤降低%.2f个百分点。优化后的配置更好地平衡了风险与收益的关系。",
			algorithmName, numAssets, m.ReturnBefore*100, m.ReturnAfter*100, sharpeImprovement, riskReduction),
		InvestmentStrategy: fmt.Sprintf(
			"本次优化采用现代投资组合理论，结合%s的先进算法，在满足您风险承受能力的前提下最大化投资组合的风险调整收益。策略重点包括：1）根据各资产的历史风险收益特征，重新分配投资权重；2）通过相关性分析实现有效的风险分散；3）优化资产间的协同效应，提升整体组合效率。优化后的配置显著改善了风险收益比，为实现您的投资目标奠定了坚实基础。",
			algorithmLabel),
		RiskAnalysis: fmt.Sprintf(
			"风险分析显示，优化后的投资组合在多个维度实现了风险控制的改善。组合波动率从%.2f%%降至%.2f%%，最大回撤从%.2f%%减少到%.2f%%。通过合理的资产配置分散，单一资产的极端波动对组合的冲击得到有效缓解。建议定期监控各资产的相关性变化，适时调整配置权重。",
			m.VolatilityBefore*100, m.VolatilityAfter*100, m.DrawdownBefore*100, m.DrawdownAfter*100),
		PerformanceAnalysis: fmt.Sprintf(
			"绩效分析表明，优化后的投资组合在风险调整收益方面表现优异。夏普比率从%.3f提升至%.3f，表明每承担一单位风险获得的超额收益显著增加。预期年化收益率提升%.2f个百分点，达到%.2f%%。各资产权重的调整充分考虑了历史表现、风险特征和相关性，实现了更加高效的资本配置。",
			m.SharpeBefore, m.SharpeAfter, returnImprovement, m.ReturnAfter*100),
		Recommendations: []string{
			"建议按照优化后的权重配置进行投资，初期可分批建仓以降低择时风险",
			"每季度对投资组合进行重新平衡，确保各资产权重保持在目标范围内",
			"密切关注市场环境变化，当基本面发生重大变化时及时调整配置策略",
			"设置止损机制，当组合回撤超过预期时采取适当的风控措施",
			"考虑定期使用量子优化算法重新计算最优配置，适应市场环境变化",
		},
		Disclaimer: "本报告基于历史数据和数学模型生成，仅供参考，不构成投资建议。投资有风险，过往业绩不代表未来表现。请根据自身风险承受能力和投资目标谨慎决策，必要时咨询专业投资顾问。市场环境变化可能导致实际收益与预期存在差异。",
	}
}
