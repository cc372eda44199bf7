package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sahaty/medtrack/pkg/model"
)

// stubCompleter returns a canned response after an optional gate.
type stubCompleter struct {
	response string
	err      error
	entered  chan struct{}
	release  chan struct{}
	prompts  []string
}

func (s *stubCompleter) Complete(_ context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	if len(messages) > 0 {
		if sys := messages[0].OfSystem; sys != nil {
			s.prompts = append(s.prompts, sys.Content.OfString.Value)
		}
	}
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	return s.response, s.err
}

func testState() model.PatientState {
	return model.PatientState{
		PatientName:      "Mona",
		PatientAge:       70,
		TakenMedications: map[string]bool{"examide": true},
		CurrentReport: model.HealthReport{
			Date:         "2025-03-10",
			HealthRating: 3,
			PainLevel:    6,
			PainLocation: "lower back",
			SleepQuality: model.QualityPoor,
			Symptoms:     []string{"Headache"},
			Notes:        "restless night",
		},
	}
}

func TestAnalyze_ParsesStructuredResponse(t *testing.T) {
	stub := &stubCompleter{response: `{
		"summary": "Stable overall",
		"recommendations": ["Drink more water"],
		"warnings": [],
		"positive_points": ["Good adherence"]
	}`}
	a := NewAnalyzer(stub, zap.NewNop())

	result, err := a.Analyze(context.Background(), testState())
	assert.NoError(t, err)
	assert.Equal(t, "Stable overall", result.Summary)
	assert.Equal(t, []string{"Drink more water"}, result.Recommendations)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, []string{"Good adherence"}, result.PositivePoints)
	assert.False(t, a.Busy())
}

func TestAnalyze_StripsCodeFences(t *testing.T) {
	stub := &stubCompleter{response: "```json\n{\"summary\": \"Fine\", \"recommendations\": [], \"warnings\": [], \"positive_points\": []}\n```"}
	a := NewAnalyzer(stub, zap.NewNop())

	result, err := a.Analyze(context.Background(), testState())
	assert.NoError(t, err)
	assert.Equal(t, "Fine", result.Summary)
}

func TestAnalyze_PromptIncludesPatientData(t *testing.T) {
	stub := &stubCompleter{response: `{"summary": "ok", "recommendations": [], "warnings": [], "positive_points": []}`}
	a := NewAnalyzer(stub, zap.NewNop())

	_, err := a.Analyze(context.Background(), testState())
	assert.NoError(t, err)
	assert.Len(t, stub.prompts, 1)

	prompt := stub.prompts[0]
	assert.Contains(t, prompt, "Mona")
	assert.Contains(t, prompt, "lower back")
	assert.Contains(t, prompt, "Headache")
	assert.Contains(t, prompt, "restless night")
}

func TestAnalyze_CompleterFailureIsGenericError(t *testing.T) {
	stub := &stubCompleter{err: fmt.Errorf("429 too many requests")}
	a := NewAnalyzer(stub, zap.NewNop())

	result, err := a.Analyze(context.Background(), testState())
	assert.Nil(t, result)
	assert.Error(t, err)

	var analysisErr *Error
	assert.True(t, errors.As(err, &analysisErr))
	// the user-visible message never leaks transport details
	assert.Equal(t, "health analysis failed", err.Error())
	assert.False(t, a.Busy())
}

func TestAnalyze_MalformedPayloadFails(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "I cannot help with that"},
		{"empty", ""},
		{"missing summary", `{"recommendations": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(&stubCompleter{response: tt.response}, zap.NewNop())
			result, err := a.Analyze(context.Background(), testState())
			assert.Nil(t, result)
			assert.Error(t, err)
			assert.False(t, a.Busy())
		})
	}
}

func TestAnalyze_RejectsOverlappingRequests(t *testing.T) {
	stub := &stubCompleter{
		response: `{"summary": "ok", "recommendations": [], "warnings": [], "positive_points": []}`,
		entered:  make(chan struct{}, 1),
		release:  make(chan struct{}),
	}
	a := NewAnalyzer(stub, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		_, err := a.Analyze(context.Background(), testState())
		done <- err
	}()

	<-stub.entered
	assert.True(t, a.Busy())

	_, err := a.Analyze(context.Background(), testState())
	assert.Error(t, err)

	close(stub.release)
	assert.NoError(t, <-done)
	assert.False(t, a.Busy())
}

func TestAnalyze_NilCompleterFails(t *testing.T) {
	a := NewAnalyzer(nil, zap.NewNop())

	result, err := a.Analyze(context.Background(), testState())
	assert.Nil(t, result)
	assert.Error(t, err)
}
