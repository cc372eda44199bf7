// Package analysis turns the current patient state into a natural-language
// health analysis via a chat-completion model. It is the only collaborator
// whose failures are surfaced to the user, and only as a single generic
// failure notice.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"

	"github.com/sahaty/medtrack/internal/catalog"
	"github.com/sahaty/medtrack/pkg/model"
)

// Completer is the chat-completion dependency, satisfied by
// azure.OpenAIClient and mocked in tests.
type Completer interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error)
}

// Error is the single failure class surfaced to the user. Its message is
// deliberately generic; details stay in the logs.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return "health analysis failed"
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Analyzer serializes analysis requests: at most one is in flight at a time.
type Analyzer struct {
	ai     Completer
	logger *zap.Logger
	busy   atomic.Bool
}

// NewAnalyzer creates an Analyzer. A nil completer produces an Analyzer
// whose every request fails with the generic notice (analysis disabled).
func NewAnalyzer(ai Completer, logger *zap.Logger) *Analyzer {
	return &Analyzer{ai: ai, logger: logger}
}

// Busy reports whether an analysis request is currently in flight.
func (a *Analyzer) Busy() bool {
	return a.busy.Load()
}

// Analyze requests a structured analysis of the given state. Overlapping
// requests are rejected; the in-flight flag is cleared on every exit path.
func (a *Analyzer) Analyze(ctx context.Context, st model.PatientState) (*model.AnalysisResult, error) {
	if !a.busy.CompareAndSwap(false, true) {
		return nil, &Error{cause: fmt.Errorf("analysis already in flight")}
	}
	defer a.busy.Store(false)

	if a.ai == nil {
		return nil, &Error{cause: fmt.Errorf("analysis is not configured")}
	}

	prompt := buildPrompt(st)
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(prompt),
		openai.UserMessage("Analyze the health data above and return the result as JSON."),
	}

	response, err := a.ai.Complete(ctx, messages)
	if err != nil {
		a.logger.Error("AI analysis failed", zap.Error(err))
		return nil, &Error{cause: err}
	}

	result, err := parseResponse(response)
	if err != nil {
		a.logger.Error("failed to parse analysis response",
			zap.Error(err),
			zap.String("response", response),
		)
		return nil, &Error{cause: err}
	}

	a.logger.Info("health analysis completed",
		zap.Int("recommendations", len(result.Recommendations)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Int("positive_points", len(result.PositivePoints)),
	)

	return result, nil
}

// buildPrompt renders the patient state into the analysis prompt.
func buildPrompt(st model.PatientState) string {
	var taken, missed []string
	for _, med := range catalog.Medications {
		if st.TakenMedications[med.ID] {
			taken = append(taken, med.Name)
		} else {
			missed = append(missed, med.Name)
		}
	}

	report := st.CurrentReport

	var b strings.Builder
	fmt.Fprintf(&b, "You are a caring medical assistant. Analyze the following health data for %s, age %d:\n", st.PatientName, st.PatientAge)
	fmt.Fprintf(&b, "- Medications taken today: %s\n", joinOr(taken, "none"))
	fmt.Fprintf(&b, "- Medications still due: %s\n", joinOr(missed, "all taken"))
	fmt.Fprintf(&b, "- Overall health rating (1-5): %d\n", report.HealthRating)
	fmt.Fprintf(&b, "- Pain level (0-10): %d\n", report.PainLevel)
	fmt.Fprintf(&b, "- Pain location: %s\n", orDefault(report.PainLocation, "no specific pain"))
	fmt.Fprintf(&b, "- Sleep quality last night: %s\n", orDefault(string(report.SleepQuality), "not specified"))
	fmt.Fprintf(&b, "- Appetite today: %s\n", orDefault(string(report.Appetite), "not specified"))
	fmt.Fprintf(&b, "- Current symptoms: %s\n", joinOr(report.Symptoms, "no symptoms"))
	fmt.Fprintf(&b, "- Additional notes: %s\n", orDefault(report.Notes, "none"))
	b.WriteString(`
Provide a careful, reassuring analysis:
1. A summary of the overall condition based on medication balance and symptoms.
2. Specific recommendations (nutrition, activity, or seeing a doctor).
3. Strict warnings if symptoms conflict with blood thinners (Eliquis/Plavix) or indicate severe pain.
4. Positive points to encourage adherence.

Return valid JSON with exactly these fields:
{
  "summary": "overall condition summary",
  "recommendations": ["list of recommendations"],
  "warnings": ["important warnings"],
  "positive_points": ["encouraging observations"]
}`)
	return b.String()
}

// parseResponse extracts the structured result, tolerating markdown code
// fences around the JSON payload.
func parseResponse(response string) (*model.AnalysisResult, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return nil, fmt.Errorf("empty analysis payload")
	}

	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis payload: %w", err)
	}
	if result.Summary == "" {
		return nil, fmt.Errorf("analysis payload missing summary")
	}

	return &result, nil
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
