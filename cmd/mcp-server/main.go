// MCP server exposing the agent's two control tasks as tools, so an MCP
// host can trigger sheet processing or a one-off email over stdio.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"ai-email-agent/internal/config"
	"ai-email-agent/internal/llm"
	"ai-email-agent/internal/mailer"
	"ai-email-agent/internal/memory"
	"ai-email-agent/internal/processor"
	"ai-email-agent/internal/sheet"
)

// SendEmailParams параметры инструмента send_email
type SendEmailParams struct {
	To        string `json:"to" mcp:"destination email address"`
	FirstName string `json:"first_name" mcp:"recipient first name"`
	LastName  string `json:"last_name,omitempty" mcp:"recipient last name"`
	Fruit     string `json:"fruit,omitempty" mcp:"favourite fruit used for personalization (default: apple)"`
}

// ProcessSheetParams параметры инструмента process_sheet
type ProcessSheetParams struct{}

type agentServer struct {
	proc *processor.Processor
}

func (a *agentServer) SendEmail(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[SendEmailParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	if args.To == "" || args.FirstName == "" {
		return toolError("Missing 'to' or 'first_name'"), nil
	}
	fruit := args.Fruit
	if fruit == "" {
		fruit = "apple"
	}

	if err := a.proc.SendDirect(ctx, args.To, args.FirstName, args.LastName, fruit); err != nil {
		return toolError(fmt.Sprintf("❌ Send failed: %v", err)), nil
	}
	return toolText(fmt.Sprintf("✅ Email sent to %s", args.To)), nil
}

func (a *agentServer) ProcessSheet(ctx context.Context, _ *mcp.ServerSession, _ *mcp.CallToolParamsFor[ProcessSheetParams]) (*mcp.CallToolResultFor[any], error) {
	sum, err := a.proc.Run(ctx, nil)
	if err != nil {
		return toolError(fmt.Sprintf("❌ Sheet processing failed: %v", err)), nil
	}
	return toolText(fmt.Sprintf("✅ Sheet processed: sent=%d failed=%d skipped=%d", sum.Sent, sum.Failed, sum.Skipped)), nil
}

func toolText(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	ctx := context.Background()

	source, err := sheet.NewGoogleSource(ctx, cfg.GoogleServiceKey, cfg.SpreadsheetID, cfg.SheetName)
	if err != nil {
		log.Fatalf("❌ Failed to init sheet source: %v", err)
	}

	factory := llm.NewFactory(cfg)
	llmClient, err := factory.CreateClient(string(cfg.LLMProvider), cfg.OpenAIModel)
	if err != nil {
		log.Fatalf("❌ Failed to create llm client: %v", err)
	}

	sender, err := mailer.NewGmailSender(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleTokenJSON)
	if err != nil {
		log.Fatalf("❌ Failed to init gmail sender: %v", err)
	}

	// Same best-effort memory wiring as the agent binary: the configured
	// backend is honored, and an init failure downgrades to no recording.
	recorder, err := memory.NewRecorder(ctx, cfg)
	if err != nil {
		log.Printf("⚠️ Failed to init memory backend: %v", err)
	}

	agent := &agentServer{proc: processor.New(source, mailer.NewLLMComposer(llmClient), sender, recorder)}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "ai-email-agent-mcp",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "send_email",
		Description: "Send AI-generated email via Gmail based on sheet data.",
	}, agent.SendEmail)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "process_sheet",
		Description: "Read Google Sheet and send unsent emails.",
	}, agent.ProcessSheet)

	log.Printf("📋 Registered MCP tools: send_email, process_sheet")
	log.Printf("🔗 Starting MCP server on stdin/stdout...")

	transport := mcp.NewStdioTransport()
	if err := server.Run(context.Background(), transport); err != nil {
		log.Fatalf("❌ MCP server failed: %v", err)
	}
}
