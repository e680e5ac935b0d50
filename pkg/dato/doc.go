// Package dato provides types, interfaces, and helpers for working with the
// DatoCMS Content Management API (CMA) and Dashboard API.
//
// # Overview
//
// The dato package defines the domain types (e.g., Item, ItemType, Field,
// Upload, Environment) and the interfaces for resource-oriented clients (e.g.,
// ItemsClient, UploadsClient). A concrete implementation of these clients is
// provided by the datocms package, which wires configuration, transport,
// authentication, caching and interceptors. Most consumers should import
// datocms to construct a client and then interact with the resource client
// interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/dato-client/pkg/dato"
//	  "github.com/fivetwenty-io/dato-client/pkg/datocms"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := datocms.New(ctx, &dato.Config{APIToken: "<token>"})
//	  if err != nil { log.Fatal(err) }
//
//	  items, err := cli.Items().List(ctx, dato.NewQueryParams().WithType("article").WithLimit(50))
//	  if err != nil { log.Fatal(err) }
//	  _ = items
//	}
//
// # Queries and pagination
//
// QueryParams expresses filters, field filters, ordering, locale, version and
// page options. ListPagedIterator returns a lazy iterator that fetches the next
// page only once the current one has been consumed:
//
//	it := cli.Items().ListPagedIterator(ctx, dato.NewQueryParams().WithType("article"))
//	for item := range it.Seq() {
//	  _ = item
//	}
//	if err := it.Err(); err != nil { /* handle error */ }
//
// # Errors
//
// Failed calls return *APIError. It matches the status sentinels (ErrNotFound,
// ErrValidation, ErrRateLimited, ...) through errors.Is, and helpers such as
// IsNotFound and HasErrorCode make branching on API errors easy.
//
// # Interceptors and caching
//
// Request/response interceptors (logging, headers, metrics, client-side rate
// limiting, circuit breaking) and a pluggable Cache abstraction with memory,
// Redis and NATS JetStream backends are available. The datocms package
// composes them from Config.
package dato
