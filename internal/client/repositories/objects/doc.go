// Package objects provides the client-side persistence layer for objects
// fetched from the remote endpoint.
//
// # Data Model
//
// Each row stores the server id, the display name, the free-form data as a
// JSON document and two timestamps kept as Unix nanoseconds in UTC:
// created_at, set once on insert, and updated_at, set only when an upsert
// actually changed name or data. Listings are ordered by created_at
// descending with insertion order as the tie-breaker.
//
// Typical Usage
//
//	repo := objects.NewSQLiteRepository(tx)
//	changed, _ := repo.Upsert(ctx, obj, time.Now())
//	list, _ := repo.GetAll(ctx)
//	_, _ = repo.DeleteByID(ctx, id)
package objects
