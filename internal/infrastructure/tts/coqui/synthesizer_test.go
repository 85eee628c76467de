package coqui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Nyukimin/kokoro/internal/domain/emotion"
	"github.com/Nyukimin/kokoro/internal/domain/tts"
)

func TestSynthesize_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tts" {
			t.Errorf("Expected path /api/tts, got %s", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}

		q := r.URL.Query()
		if q.Get("text") != "Hello there" {
			t.Errorf("Unexpected text: %q", q.Get("text"))
		}
		if q.Get("speaker_id") != "p225" {
			t.Errorf("Unexpected speaker_id: %q", q.Get("speaker_id"))
		}
		if q.Get("language_id") != "en" {
			t.Errorf("Unexpected language_id: %q", q.Get("language_id"))
		}

		w.Header().Set("Content-Type", "audio/wav")
		w.Write([]byte("RIFFfake"))
	}))
	defer server.Close()

	s := NewSynthesizer(server.URL+"/", "en", 0)

	audio, err := s.Synthesize(context.Background(), tts.SynthesisRequest{
		Text:    "Hello there",
		Emotion: emotion.Happy,
		Voice:   "p225",
	})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	if string(audio.Data) != "RIFFfake" {
		t.Errorf("Unexpected audio data: %q", string(audio.Data))
	}
	if audio.Format != tts.FormatWAV {
		t.Errorf("Expected wav, got %s", audio.Format)
	}
}

func TestSynthesize_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("model not loaded"))
	}))
	defer server.Close()

	s := NewSynthesizer(server.URL, "", 0)

	_, err := s.Synthesize(context.Background(), tts.SynthesisRequest{Text: "hi"})
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}
}

func TestName(t *testing.T) {
	if NewSynthesizer("", "", 0).Name() != "coqui" {
		t.Error("Expected name 'coqui'")
	}
}
