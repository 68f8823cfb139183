package client

import (
	"context"

	"github.com/dmitrijs2005/bookexpert/internal/client/models"
)

// ObjectClient is the transport-agnostic contract for the remote object
// endpoint. Every call is a single round trip; nothing is retried.
type ObjectClient interface {
	List(ctx context.Context) ([]models.RemoteObject, error)
	Create(ctx context.Context, name string, data map[string]any) (*models.RemoteObject, error)
	Update(ctx context.Context, id string, name string, data map[string]any) (*models.RemoteObject, error)
	Delete(ctx context.Context, id string) error
}

// TokenSource supplies the bearer token attached to outgoing requests.
// An empty token means the request is sent without Authorization.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }
