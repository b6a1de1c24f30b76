package mailer

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"regexp"
	"strings"

	"ai-email-agent/internal/llm"
)

// ErrEmptyGeneration is returned when the text service produced no usable
// content. Callers must treat it as a row-scoped failure instead of sending
// an empty email.
var ErrEmptyGeneration = errors.New("generation returned empty content")

// DefaultSubject is the fixed campaign subject line.
const DefaultSubject = "Welcome to our AI Agent Workshop"

const systemPrompt = "You are a helpful AI writing assistant."

const promptTemplate = `
Write a short, professional, and engaging email to %s %s, whose favourite fruit is %s, inviting them to join our upcoming AI Agent Workshop.

Do not include a subject line.

In the email:
- Start with a warm greeting using their first name.
- Mention that they can benefit from learning how to build AI agents to boost efficiency and unlock new opportunities.
- Highlight that the workshop is hands-on, practical, and no-code, making it easy to follow.
- Mention that it will help them save time, automate tasks, and explore how AI agents can support entrepreneurs and innovators.
- Add a call-to-action with a registration link: https://genaition.io/event-1/
- Keep the tone friendly yet professional.
- End with a warm closing and my signature: Best regards, Javid Valiyev, GenAition Team
`

var htmlTemplate = template.Must(template.New("email").Parse(`<html>
  <body style="font-family:Arial,sans-serif;background-color:#f6f8fa;margin:0;padding:0;">
    <table width="100%" cellspacing="0" cellpadding="0" style="background-color:#f6f8fa;padding:40px 0;">
      <tr>
        <td align="center">
          <table width="600" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:10px;box-shadow:0 2px 10px rgba(0,0,0,0.05);overflow:hidden;">
            <tr>
              <td style="padding:30px;">
                <h2 style="color:#222;text-align:center;margin-top:0;margin-bottom:20px;font-weight:600;font-size:22px;">
                  Welcome to our AI Agent Workshop
                </h2>
                <div style="color:#444;font-size:15px;line-height:1.7;">
                  {{.Body}}
                </div>
                <div style="text-align:center;margin-top:35px;">
                  <a href="https://genaition.io/event-1/"
                    style="display:inline-block;padding:12px 24px;background-color:#16a34a;color:white;text-decoration:none;border-radius:8px;font-weight:600;">
                    Register Now
                  </a>
                </div>
                <p style="color:#888;text-align:center;margin-top:40px;font-size:13px;">
                  Best regards,<br>
                  <strong>Javid Valiyev</strong><br>
                  GenAition Team
                </p>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>`))

// Composer produces a formatted message body for a recipient.
type Composer interface {
	Compose(ctx context.Context, firstName, lastName, fruit string) (string, error)
}

// LLMComposer generates the email copy with a generative-text client and
// wraps it in the fixed campaign HTML template. One network call per
// invocation; no retry at this layer.
type LLMComposer struct {
	client llm.Client
}

func NewLLMComposer(client llm.Client) *LLMComposer {
	return &LLMComposer{client: client}
}

func (c *LLMComposer) Compose(ctx context.Context, firstName, lastName, fruit string) (string, error) {
	log.Printf("🧠 Generating AI email for %s %s...", firstName, lastName)

	prompt := fmt.Sprintf(promptTemplate, firstName, lastName, fruit)
	resp, err := c.client.Generate(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmptyGeneration, err)
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", ErrEmptyGeneration
	}
	return renderHTML(text), nil
}

var (
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	lineBreak      = regexp.MustCompile(`\n`)
)

// renderHTML escapes the generated prose and converts blank-line paragraph
// breaks and single newlines to their HTML equivalents before wrapping it
// in the campaign template.
func renderHTML(text string) string {
	escaped := template.HTMLEscapeString(text)
	escaped = paragraphBreak.ReplaceAllString(escaped, "</p><p>")
	escaped = lineBreak.ReplaceAllString(escaped, "<br>")

	var b strings.Builder
	// Template errors are impossible here: the template is static and the
	// only value is pre-rendered HTML.
	_ = htmlTemplate.Execute(&b, struct{ Body template.HTML }{Body: template.HTML("<p>" + escaped + "</p>")})
	return b.String()
}
