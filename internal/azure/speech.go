package azure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// AudioSink receives synthesized audio. The default sink discards it; a
// deployment wires a real player here.
type AudioSink func(audio []byte)

// SpeechClient wraps the Azure Speech text-to-speech REST API. Speak is
// fire-and-forget; Stop interrupts whatever is currently being spoken.
type SpeechClient struct {
	subscriptionKey string
	region          string
	voice           string
	ttsEndpoint     string // overridable for tests
	httpClient      *http.Client
	sink            AudioSink
	logger          *zap.Logger

	mu      sync.Mutex
	current context.CancelFunc
}

// NewSpeechClient creates a speech client for the given region and voice.
func NewSpeechClient(subscriptionKey, region, voice string, sink AudioSink, logger *zap.Logger) (*SpeechClient, error) {
	if subscriptionKey == "" || region == "" {
		return nil, fmt.Errorf("subscriptionKey and region are required")
	}
	if voice == "" {
		voice = "ar-EG-SalmaNeural"
	}
	if sink == nil {
		sink = func([]byte) {}
	}

	return &SpeechClient{
		subscriptionKey: subscriptionKey,
		region:          region,
		voice:           voice,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		sink:   sink,
		logger: logger,
	}, nil
}

// Speak synthesizes the text and hands the audio to the sink. It returns
// immediately; synthesis failures are logged, never surfaced.
func (c *SpeechClient) Speak(text string) {
	if text == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)

	c.mu.Lock()
	if c.current != nil {
		c.current()
	}
	c.current = cancel
	c.mu.Unlock()

	go func() {
		defer cancel()
		audio, err := c.synthesize(ctx, text)
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Warn("speech synthesis failed", zap.Error(err))
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		c.sink(audio)
	}()
}

// Stop interrupts the in-flight synthesis, if any.
func (c *SpeechClient) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current()
		c.current = nil
	}
}

func (c *SpeechClient) synthesize(ctx context.Context, text string) ([]byte, error) {
	c.logger.Info("starting text-to-speech synthesis",
		zap.String("voice", c.voice),
		zap.Int("text_length", len(text)),
	)

	ssml := fmt.Sprintf(`<speak version='1.0' xml:lang='ar-EG'>
		<voice name='%s'>
			%s
		</voice>
	</speak>`, c.voice, text)

	url := fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", c.region)
	if c.ttsEndpoint != "" {
		url = c.ttsEndpoint + "/cognitiveservices/v1"
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBufferString(ssml))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", "audio-16khz-32kbitrate-mono-mp3")
	req.Header.Set("User-Agent", "MedTrack-Client")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("text-to-speech request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("text-to-speech request failed with status %d: %s", resp.StatusCode, string(body))
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	c.logger.Info("text-to-speech synthesis completed",
		zap.Int("audio_size_bytes", len(audioData)),
		zap.Duration("processing_time", time.Since(startTime)),
	)

	return audioData, nil
}
