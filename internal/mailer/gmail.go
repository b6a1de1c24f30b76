package mailer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// DeliveryError reports a rejected or failed send. It is row-scoped: the
// job processor records the row as failed and moves on.
type DeliveryError struct {
	To  string
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %v", e.To, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Sender transmits a composed message to a destination address.
type Sender interface {
	Deliver(ctx context.Context, to, subject, htmlBody string) error
}

// GmailSender sends mail through the Gmail API on behalf of the
// authorized user.
type GmailSender struct {
	svc *gmail.Service
}

// NewGmailSender builds a Gmail client from OAuth2 app credentials and a
// previously obtained user token (see cmd/google-auth-helper).
func NewGmailSender(ctx context.Context, clientID, clientSecret, tokenJSON string) (*GmailSender, error) {
	token := &oauth2.Token{}
	if err := json.Unmarshal([]byte(tokenJSON), token); err != nil {
		return nil, fmt.Errorf("failed to parse gmail token: %w", err)
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       []string{gmail.GmailSendScope},
		Endpoint:     google.Endpoint,
	}
	httpClient := conf.Client(ctx, token)

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &GmailSender{svc: svc}, nil
}

func (s *GmailSender) Deliver(ctx context.Context, to, subject, htmlBody string) error {
	raw := buildRawMessage(to, subject, htmlBody)
	_, err := s.svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return &DeliveryError{To: to, Err: err}
	}
	log.Printf("📧 Email sent to %s", to)
	return nil
}

// buildRawMessage assembles an RFC-2822-style message with a MIME-encoded
// subject and an HTML body, base64url-encoded without padding as the Gmail
// API requires.
func buildRawMessage(to, subject, htmlBody string) string {
	lines := []string{
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: =?utf-8?B?%s?=", base64.StdEncoding.EncodeToString([]byte(subject))),
		"Content-Type: text/html; charset=UTF-8",
		"",
		htmlBody,
	}
	msg := strings.Join(lines, "\r\n")
	return base64.RawURLEncoding.EncodeToString([]byte(msg))
}
