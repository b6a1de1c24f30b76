package mailer

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"ai-email-agent/internal/llm"
)

type fakeLLM struct {
	content string
	err     error
	prompts []string
}

func (f *fakeLLM) Generate(_ context.Context, messages []llm.Message) (llm.Response, error) {
	for _, m := range messages {
		if m.Role == "user" {
			f.prompts = append(f.prompts, m.Content)
		}
	}
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Content: f.content}, nil
}

func TestComposePersonalizesPrompt(t *testing.T) {
	fl := &fakeLLM{content: "Hi Alice,\n\nCome join us.\nIt will be great."}
	c := NewLLMComposer(fl)

	body, err := c.Compose(context.Background(), "Alice", "Smith", "mango")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	if len(fl.prompts) != 1 {
		t.Fatalf("want one prompt, got %d", len(fl.prompts))
	}
	p := fl.prompts[0]
	for _, want := range []string{"Alice Smith", "mango", "https://genaition.io/event-1/"} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}

	if !strings.Contains(body, "Hi Alice,") {
		t.Fatalf("body missing generated text:\n%s", body)
	}
	if !strings.Contains(body, "</p><p>") {
		t.Fatalf("blank line not converted to paragraph break:\n%s", body)
	}
	if !strings.Contains(body, "It will be great.") || !strings.Contains(body, "<br>") {
		t.Fatalf("single newline not converted to <br>:\n%s", body)
	}
	if !strings.Contains(body, "Register Now") {
		t.Fatalf("template wrapper missing:\n%s", body)
	}
}

func TestComposeEscapesGeneratedMarkup(t *testing.T) {
	fl := &fakeLLM{content: `Hello <script>alert("x")</script>`}
	c := NewLLMComposer(fl)

	body, err := c.Compose(context.Background(), "A", "B", "kiwi")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Fatalf("generated markup must be escaped:\n%s", body)
	}
}

func TestComposeEmptyContentFails(t *testing.T) {
	c := NewLLMComposer(&fakeLLM{content: "   \n  "})
	if _, err := c.Compose(context.Background(), "A", "B", "kiwi"); !errors.Is(err, ErrEmptyGeneration) {
		t.Fatalf("want ErrEmptyGeneration, got %v", err)
	}
}

func TestComposeTransportErrorFails(t *testing.T) {
	c := NewLLMComposer(&fakeLLM{err: errors.New("connection refused")})
	if _, err := c.Compose(context.Background(), "A", "B", "kiwi"); !errors.Is(err, ErrEmptyGeneration) {
		t.Fatalf("want ErrEmptyGeneration wrapper, got %v", err)
	}
}

func TestBuildRawMessage(t *testing.T) {
	raw := buildRawMessage("alice@example.com", "Welcome to our AI Agent Workshop", "<html><body>hi</body></html>")

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("raw message is not unpadded base64url: %v", err)
	}
	msg := string(decoded)

	if !strings.HasPrefix(msg, "To: alice@example.com\r\n") {
		t.Fatalf("missing To header:\n%s", msg)
	}
	wantSubject := "Subject: =?utf-8?B?" + base64.StdEncoding.EncodeToString([]byte("Welcome to our AI Agent Workshop")) + "?="
	if !strings.Contains(msg, wantSubject) {
		t.Fatalf("subject not MIME-encoded:\n%s", msg)
	}
	if !strings.Contains(msg, "Content-Type: text/html; charset=UTF-8") {
		t.Fatalf("missing content type:\n%s", msg)
	}
	headerEnd := strings.Index(msg, "\r\n\r\n")
	if headerEnd < 0 {
		t.Fatalf("missing blank line between headers and body:\n%s", msg)
	}
	if body := msg[headerEnd+4:]; body != "<html><body>hi</body></html>" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestDeliveryErrorUnwrap(t *testing.T) {
	inner := errors.New("rate limited")
	var err error = &DeliveryError{To: "a@b.c", Err: inner}
	if !errors.Is(err, inner) {
		t.Fatalf("DeliveryError must unwrap to the transport error")
	}
	if !strings.Contains(err.Error(), "a@b.c") {
		t.Fatalf("error text should name the recipient: %v", err)
	}
}
