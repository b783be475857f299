package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fashionguide/chat-backend/internal/common"
)

const defaultTokenInfoEndpoint = "https://oauth2.googleapis.com/tokeninfo"

// TokenInfoVerifier validates Google ID tokens against the tokeninfo
// endpoint. Google performs the signature check; audience, issuer, and
// expiry are enforced here.
type TokenInfoVerifier struct {
	clientID string
	endpoint string
	client   *http.Client
}

func NewTokenInfoVerifier(clientID string, client *http.Client) *TokenInfoVerifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &TokenInfoVerifier{clientID: clientID, endpoint: defaultTokenInfoEndpoint, client: client}
}

// tokenInfo mirrors the fields of Google's tokeninfo response. Numeric and
// boolean claims arrive as strings.
type tokenInfo struct {
	Aud           string `json:"aud"`
	Iss           string `json:"iss"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Exp           string `json:"exp"`
}

func (v *TokenInfoVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	if rawToken == "" {
		return nil, common.ErrInvalidFederatedToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		v.endpoint+"?id_token="+url.QueryEscape(rawToken), nil)
	if err != nil {
		return nil, fmt.Errorf("building tokeninfo request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Google answers 400 for malformed, expired, or forged tokens.
		return nil, common.ErrInvalidFederatedToken
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, common.ErrInvalidFederatedToken
	}

	if info.Aud != v.clientID {
		return nil, common.ErrInvalidFederatedToken
	}
	if info.Iss != "accounts.google.com" && info.Iss != "https://accounts.google.com" {
		return nil, common.ErrInvalidFederatedToken
	}
	if exp, err := strconv.ParseInt(info.Exp, 10, 64); err != nil || time.Now().Unix() >= exp {
		return nil, common.ErrInvalidFederatedToken
	}
	if info.Sub == "" || info.Email == "" || info.EmailVerified != "true" {
		return nil, common.ErrInvalidFederatedToken
	}

	return &Identity{Subject: info.Sub, Email: info.Email, Name: info.Name}, nil
}
