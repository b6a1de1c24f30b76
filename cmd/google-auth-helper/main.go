// One-shot CLI that walks the Google OAuth2 consent flow for the Sheets
// and Gmail-send scopes and writes the resulting token to token.json.
// Run it once per deployment; the agent reads the token from
// GOOGLE_TOKEN_JSON afterwards.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/sheets/v4"
)

const (
	redirectURL = "http://localhost:3000"
	tokenFile   = "token.json"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		log.Fatal("❌ GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required")
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes: []string{
			sheets.SpreadsheetsScope,
			gmail.GmailSendScope,
		},
		Endpoint: google.Endpoint,
	}

	authURL := conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	done := make(chan struct{})
	var server *http.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, "<h2>Waiting for Google authorization...</h2>")
			return
		}

		token, err := conf.Exchange(context.Background(), code)
		if err != nil {
			log.Printf("❌ Error during OAuth flow: %v", err)
			fmt.Fprint(w, "<h2>❌ Error during authentication. Check terminal.</h2>")
			close(done)
			return
		}

		if err := saveToken(tokenFile, token); err != nil {
			log.Fatalf("❌ Failed to save token: %v", err)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<h2 style="font-family:sans-serif;">✅ Authorization successful!</h2><p>You can close this tab and return to the terminal.</p>`)
		log.Printf("✅ Access & refresh tokens saved to %s", tokenFile)
		close(done)
	})

	server = &http.Server{Addr: ":3000", Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Local server failed: %v", err)
		}
	}()

	log.Printf("🌐 Listening on %s", redirectURL)
	log.Printf("🔗 Open this URL in your browser to authorize:\n\n%s\n", authURL)

	<-done
	_ = server.Shutdown(context.Background())
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(token)
}
