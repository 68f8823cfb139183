// Package auth keeps the signed-in identity for the client.
//
// The identity provider itself is external: SignIn receives an ID token it
// issued, extracts the profile and stores the token together with a local
// echo of the profile in the metadata table. The REST client reads the token
// through Token.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bookexpert/internal/client/models"
	"github.com/dmitrijs2005/bookexpert/internal/jwtx"
	"github.com/dmitrijs2005/bookexpert/internal/logging"
)

const (
	keyToken   = "auth.token"
	keyProfile = "auth.profile"
)

var ErrNotSignedIn = errors.New("not signed in")

// Provider is the identity surface the rest of the client depends on.
type Provider interface {
	CurrentUser(ctx context.Context) (*models.UserProfile, error)
	Token(ctx context.Context) (string, error)
	SignOut(ctx context.Context) error
}

// MetadataStore is the key/value persistence used for the local echo.
type MetadataStore interface {
	Metadata(ctx context.Context, key string) ([]byte, error)
	SetMetadata(ctx context.Context, values map[string][]byte) error
	DeleteMetadata(ctx context.Context, keys ...string) error
}

// TokenProvider implements Provider over an ID token kept in metadata.
type TokenProvider struct {
	store  MetadataStore
	secret []byte
	log    logging.Logger
}

// NewTokenProvider returns a provider. With a non-empty secret, tokens are
// verified as HS256 on sign-in; otherwise only their claims are decoded and
// the endpoint remains the verifier.
func NewTokenProvider(store MetadataStore, secret string, log logging.Logger) *TokenProvider {
	if log == nil {
		log = logging.Nop()
	}
	var key []byte
	if secret != "" {
		key = []byte(secret)
	}
	return &TokenProvider{store: store, secret: key, log: log}
}

// SignIn validates idToken, stores it and returns the profile it carries.
func (p *TokenProvider) SignIn(ctx context.Context, idToken string) (*models.UserProfile, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, jwtx.ErrInvalidToken
	}

	var (
		claims *jwtx.Claims
		err    error
	)
	if p.secret != nil {
		claims, err = jwtx.Parse(idToken, p.secret)
	} else {
		claims, err = jwtx.ParseUnverified(idToken)
	}
	if err != nil {
		return nil, err
	}

	profile := &models.UserProfile{
		UID:         claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		PhotoURL:    claims.Picture,
	}
	echo, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}

	if err := p.store.SetMetadata(ctx, map[string][]byte{
		keyToken:   []byte(idToken),
		keyProfile: echo,
	}); err != nil {
		return nil, fmt.Errorf("store identity: %w", err)
	}

	p.log.Info(ctx, "signed in", "uid", profile.UID)
	return profile, nil
}

// CurrentUser returns the stored profile or ErrNotSignedIn.
func (p *TokenProvider) CurrentUser(ctx context.Context) (*models.UserProfile, error) {
	raw, err := p.store.Metadata(ctx, keyProfile)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrNotSignedIn
	}
	var profile models.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}

// Token returns the stored ID token, or "" when nobody is signed in.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	raw, err := p.store.Metadata(ctx, keyToken)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// SignOut removes the token and the profile echo.
func (p *TokenProvider) SignOut(ctx context.Context) error {
	if err := p.store.DeleteMetadata(ctx, keyToken, keyProfile); err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}
	p.log.Info(ctx, "signed out")
	return nil
}
