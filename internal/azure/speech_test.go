package azure

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewSpeechClient(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name            string
		subscriptionKey string
		region          string
		wantErr         bool
	}{
		{
			name:            "valid configuration",
			subscriptionKey: "test-key",
			region:          "swedencentral",
			wantErr:         false,
		},
		{
			name:            "missing subscription key",
			subscriptionKey: "",
			region:          "swedencentral",
			wantErr:         true,
		},
		{
			name:            "missing region",
			subscriptionKey: "test-key",
			region:          "",
			wantErr:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewSpeechClient(tt.subscriptionKey, tt.region, "", nil, logger)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewSpeechClient() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if client == nil {
					t.Fatal("NewSpeechClient() returned nil client")
				}
				if client.voice != "ar-EG-SalmaNeural" {
					t.Errorf("default voice = %v, want ar-EG-SalmaNeural", client.voice)
				}
				if client.httpClient.Timeout != 60*time.Second {
					t.Errorf("timeout = %v, want 60s", client.httpClient.Timeout)
				}
			}
		})
	}
}

func TestSpeechClient_Speak_DeliversAudioToSink(t *testing.T) {
	logger := zap.NewNop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "test-key" {
			t.Error("Missing or incorrect subscription key header")
		}
		if r.Header.Get("Content-Type") != "application/ssml+xml" {
			t.Error("Missing or incorrect content type header")
		}
		body := make([]byte, r.ContentLength)
		r.Body.Read(body)
		if !strings.Contains(string(body), "hello there") {
			t.Error("SSML payload missing text")
		}
		w.Write([]byte("mock-audio-data"))
	}))
	defer server.Close()

	audioCh := make(chan []byte, 1)
	client, err := NewSpeechClient("test-key", "swedencentral", "", func(audio []byte) {
		audioCh <- audio
	}, logger)
	if err != nil {
		t.Fatalf("NewSpeechClient() error = %v", err)
	}
	client.ttsEndpoint = server.URL

	client.Speak("hello there")

	select {
	case audio := <-audioCh:
		if string(audio) != "mock-audio-data" {
			t.Errorf("sink received %q, want mock-audio-data", audio)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audio")
	}
}

func TestSpeechClient_Speak_EmptyTextIsNoOp(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client, err := NewSpeechClient("test-key", "swedencentral", "", nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSpeechClient() error = %v", err)
	}
	client.ttsEndpoint = server.URL

	client.Speak("")
	time.Sleep(100 * time.Millisecond)

	if called {
		t.Error("empty text should not reach the service")
	}
}

func TestSpeechClient_Stop_InterruptsSynthesis(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte("late-audio"))
	}))
	defer server.Close()
	defer close(release)

	audioCh := make(chan []byte, 1)
	client, err := NewSpeechClient("test-key", "swedencentral", "", func(audio []byte) {
		audioCh <- audio
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSpeechClient() error = %v", err)
	}
	client.ttsEndpoint = server.URL

	client.Speak("interrupt me")
	time.Sleep(50 * time.Millisecond)
	client.Stop()

	select {
	case audio := <-audioCh:
		t.Errorf("sink received %q after Stop", audio)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestSpeechClient_ErrorResponseIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	audioCh := make(chan []byte, 1)
	client, err := NewSpeechClient("test-key", "swedencentral", "", func(audio []byte) {
		audioCh <- audio
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSpeechClient() error = %v", err)
	}
	client.ttsEndpoint = server.URL

	client.Speak("will fail")

	select {
	case <-audioCh:
		t.Error("sink should not receive audio on failure")
	case <-time.After(300 * time.Millisecond):
	}
}
