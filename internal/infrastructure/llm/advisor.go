package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/mcp2everything/PID-agent/internal/domain/providers"
	"github.com/mcp2everything/PID-agent/internal/domain/tuning"
	"github.com/mcp2everything/PID-agent/internal/pkg/logger"
)

const advisorTemperature = 0.3

const promptTemplate = `You are an expert in PID control systems. Based on the
performance metrics below, propose improved PID parameters.

Current state:
%s

Performance metrics:
%s

Respond with a single JSON object and nothing else:
{
    "kp": 1.0,
    "ki": 0.1,
    "kd": 0.05,
    "explanation": "why each parameter changed"
}

Rules:
1. kp must be within [0.1, 100.0]
2. ki must be within [0.0, 10.0]
3. kd must be within [0.0, 10.0]
4. explanation must be a string
5. Use double quotes, no comments, no text outside the JSON object
`

// modelFactory builds a model client. Swapped out in tests.
type modelFactory func(p *providers.ProviderConfig, modelName string) (llms.Model, error)

// Advisor asks the currently selected LLM backend for new gains. A failed or
// garbled response falls back to the current gains instead of erroring, so a
// flaky backend never breaks the control loop.
type Advisor struct {
	registry providers.Registry
	logger   logger.Logger
	newModel modelFactory
}

// NewAdvisor returns an advisor backed by the registry's current selection.
func NewAdvisor(registry providers.Registry, logger logger.Logger) *Advisor {
	return &Advisor{
		registry: registry,
		logger:   logger,
		newModel: NewModel,
	}
}

// Suggest implements tuning.Advisor.
func (a *Advisor) Suggest(ctx context.Context, req tuning.SuggestionRequest) (*tuning.Suggestion, error) {
	selection := a.registry.Current()
	if !selection.Configured() {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	provider, err := a.registry.Provider(selection.Provider)
	if err != nil {
		return nil, err
	}
	modelCfg, err := provider.Model(selection.Model)
	if err != nil {
		return nil, err
	}

	model, err := a.newModel(provider, selection.Model)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(promptTemplate, formatState(req), formatMetrics(req.Metrics))

	response, err := llms.GenerateFromSinglePrompt(ctx, model, prompt,
		llms.WithTemperature(advisorTemperature),
		llms.WithMaxTokens(modelCfg.MaxTokens),
	)
	if err != nil {
		a.logger.Warn(fmt.Sprintf("LLM call failed, keeping current gains: %v", err))
		return fallback(req), nil
	}

	suggestion, err := parseSuggestion(response)
	if err != nil {
		a.logger.Warn(fmt.Sprintf("Unusable LLM response, keeping current gains: %v", err))
		return fallback(req), nil
	}

	clamped := suggestion.Clamp()
	return &clamped, nil
}

func fallback(req tuning.SuggestionRequest) *tuning.Suggestion {
	return &tuning.Suggestion{
		Kp:          req.Current.Kp,
		Ki:          req.Current.Ki,
		Kd:          req.Current.Kd,
		Explanation: "Optimization failed, keeping current parameters",
	}
}

// parseSuggestion extracts the JSON object from a model response, tolerating
// code fences and surrounding chatter.
func parseSuggestion(response string) (*tuning.Suggestion, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var raw struct {
		Kp          *float64 `json:"kp"`
		Ki          *float64 `json:"ki"`
		Kd          *float64 `json:"kd"`
		Explanation *string  `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(response[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("malformed JSON in response: %w", err)
	}
	if raw.Kp == nil || raw.Ki == nil || raw.Kd == nil {
		return nil, fmt.Errorf("response is missing a gain field")
	}
	if raw.Explanation == nil {
		return nil, fmt.Errorf("response is missing the explanation field")
	}

	return &tuning.Suggestion{
		Kp:          *raw.Kp,
		Ki:          *raw.Ki,
		Kd:          *raw.Kd,
		Explanation: *raw.Explanation,
	}, nil
}

func formatState(req tuning.SuggestionRequest) string {
	return fmt.Sprintf(
		"- Current Kp: %.3f\n- Current Ki: %.3f\n- Current Kd: %.3f\n- Target temperature: %.1f\n- Current temperature: %.1f",
		req.Current.Kp, req.Current.Ki, req.Current.Kd, req.Current.TargetTemp, req.CurrentTemp)
}

func formatMetrics(m *tuning.ResponseMetrics) string {
	if m == nil {
		return "- No metrics available"
	}
	return fmt.Sprintf(
		"- Rise time: %s s\n- Overshoot: %s%%\n- Steady-state error: %s °C\n- Temperature std: %s °C",
		formatMetric(m.RiseTimeSec), formatMetric(m.OvershootPct),
		formatMetric(m.SteadyStateError), formatMetric(m.TemperatureStd))
}

func formatMetric(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.3f", *v)
}
