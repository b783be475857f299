package google

import (
	"context"

	"github.com/fashionguide/chat-backend/internal/common"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Flow drives the browser authorization-code flow. The exchanged token's
// id_token field feeds the same verifier as the direct sign-in endpoint.
type Flow struct {
	conf *oauth2.Config
}

func NewFlow(clientID, clientSecret, redirectURL string) *Flow {
	return &Flow{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
		},
	}
}

// AuthURL returns the provider consent page URL for the given state token.
func (f *Flow) AuthURL(state string) string {
	return f.conf.AuthCodeURL(state)
}

// Exchange trades the authorization code for tokens and returns the raw ID
// token carried alongside the access token.
func (f *Flow) Exchange(ctx context.Context, code string) (string, error) {
	token, err := f.conf.Exchange(ctx, code)
	if err != nil {
		return "", common.ErrInvalidFederatedToken
	}
	idToken, ok := token.Extra("id_token").(string)
	if !ok || idToken == "" {
		return "", common.ErrInvalidFederatedToken
	}
	return idToken, nil
}
