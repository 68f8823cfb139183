// Package client contains the client-side building blocks for BookExpert.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract for the remote object endpoint (see the
//     ObjectClient interface): List, Create, Update and Delete.
//  2. A REST/JSON implementation (see HTTPClient) that validates the endpoint
//     URL, optionally attaches a bearer token from a TokenSource, and maps
//     HTTP status codes to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Failures are classified so callers can match them with errors.Is/As:
// ErrInvalidURL, ErrUnauthorized, *ServerError, ErrDecoding and ErrUnknown.
// Requests are never retried.
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context and honor cancellation.
package client
