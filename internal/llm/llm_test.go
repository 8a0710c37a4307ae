package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/jask/omnibar/internal/intent"
)

type fakeModel struct {
	reply    string
	err      error
	messages []llms.MessageContent
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	if f.err != nil {
		return nil, f.err
	}
	if f.reply == "" {
		return &llms.ContentResponse{}, nil
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestChatClassifierParsesFencedJSON(t *testing.T) {
	m := &fakeModel{reply: "```json\n{\"type\":\"create\",\"confidence\":1.4,\"params\":{\"personName\":\"Karim\",\"budget\":1500000}}\n```"}
	c := newChatClassifier(m)

	in, err := c.Classify(context.Background(), "nouveau client Karim")
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if in.Type != intent.Create {
		t.Fatalf("type = %q, want %q", in.Type, intent.Create)
	}
	if in.Confidence != 1 {
		t.Fatalf("confidence = %v, want clamp to 1", in.Confidence)
	}
	if in.Entities[intent.EntityPersonName] != "Karim" || in.Entities[intent.EntityBudget] != "1500000" {
		t.Fatalf("entities = %v", in.Entities)
	}
	if in.RawQuery != "nouveau client Karim" {
		t.Fatalf("query = %q", in.RawQuery)
	}
	if len(m.messages) != 2 || m.messages[0].Role != llms.ChatMessageTypeSystem {
		t.Fatalf("prompt messages = %+v", m.messages)
	}
}

func TestChatClassifierErrors(t *testing.T) {
	boom := errors.New("boom")
	if _, err := newChatClassifier(&fakeModel{err: boom}).Classify(context.Background(), "x"); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if _, err := newChatClassifier(&fakeModel{reply: "not json"}).Classify(context.Background(), "x"); err == nil {
		t.Fatalf("expected parse error")
	}
	in, err := newChatClassifier(&fakeModel{}).Classify(context.Background(), "x")
	if err != nil || in != nil {
		t.Fatalf("empty reply = %v, %v; want nil, nil", in, err)
	}
}

func TestBackendClassifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != agentPath {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var body struct{ Query string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Query == "vide" {
			_, _ = w.Write([]byte(`{"intent":null}`))
			return
		}
		_, _ = w.Write([]byte(`{"intent":{"type":"SEND_MESSAGE","confidence":0.9,"params":{"personName":"Alami"},"description":"Message"}}`))
	}))
	defer srv.Close()

	b := NewBackendClassifier(srv.URL + "/")
	in, err := b.Classify(context.Background(), "écris à Alami")
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if in.Type != intent.SendMessage || in.Entities[intent.EntityPersonName] != "Alami" || in.RawQuery != "écris à Alami" {
		t.Fatalf("intent = %+v", in)
	}

	in, err = b.Classify(context.Background(), "vide")
	if err != nil || in != nil {
		t.Fatalf("null intent = %v, %v; want nil, nil", in, err)
	}
}

func TestBackendClassifierStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	if _, err := NewBackendClassifier(srv.URL).Classify(context.Background(), "x"); err == nil {
		t.Fatalf("expected status error")
	}
}

func TestNew(t *testing.T) {
	cases := []struct {
		name    string
		s       Settings
		wantNil bool
		wantErr error
	}{
		{"none", Settings{Provider: "none"}, true, nil},
		{"empty", Settings{}, true, nil},
		{"openai without key", Settings{Provider: "openai"}, true, ErrNoAPIKey},
		{"openai local", Settings{Provider: "OpenAI", BaseURL: "http://localhost:11434/v1"}, false, nil},
		{"backend", Settings{Provider: "backend", BaseURL: "http://localhost:8080"}, false, nil},
		{"unknown", Settings{Provider: "gemini"}, true, ErrUnknownProvider},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(tc.s)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (c == nil) != tc.wantNil {
				t.Fatalf("classifier = %v, wantNil %v", c, tc.wantNil)
			}
		})
	}
}
