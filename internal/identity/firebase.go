package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// firebaseProvider verifies bearer tokens with the Firebase Admin SDK and
// signs users in through the Identity Toolkit REST API (the Admin SDK has no
// password sign-in).
type firebaseProvider struct {
	authClient *auth.Client
	apiKey     string
	httpClient *http.Client
}

func NewFirebaseProvider(ctx context.Context, projectID, apiKey string) (Provider, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &firebaseProvider{
		authClient: client,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	IDToken string `json:"idToken"`
	LocalID string `json:"localId"`
	Email   string `json:"email"`
}

func (p *firebaseProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s?key=%s", signInEndpoint, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Identity Toolkit reports bad email and bad password alike as 400.
		io.Copy(io.Discard, resp.Body)
		return nil, ErrInvalidCredentials
	}

	var out signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode sign-in response: %w", err)
	}
	if out.IDToken == "" || out.LocalID == "" {
		return nil, ErrInvalidCredentials
	}
	return &Session{
		AccessToken: out.IDToken,
		User:        User{ID: out.LocalID, Email: out.Email},
	}, nil
}

func (p *firebaseProvider) Verify(ctx context.Context, token string) (*User, error) {
	decoded, err := p.authClient.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	email, _ := decoded.Claims["email"].(string)
	return &User{ID: decoded.UID, Email: email}, nil
}
