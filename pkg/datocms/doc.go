// Package datocms provides the primary entry point for constructing DatoCMS
// API clients that implement the dato.Client and dato.DashboardClient
// interfaces.
//
// It fills in endpoint defaults and then layers HTTP transport, retries,
// authentication, caching and interceptors on top of the resource interfaces
// and types defined in the dato package.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//	  "os"
//
//	  "github.com/fivetwenty-io/dato-client/pkg/dato"
//	  "github.com/fivetwenty-io/dato-client/pkg/datocms"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  cli, err := datocms.New(ctx, &dato.Config{
//	    APIToken:    os.Getenv("DATOCMS_API_TOKEN"),
//	    Environment: "staging", // omit for the primary environment
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  articles, err := cli.Items().List(ctx, dato.NewQueryParams().WithType("article").WithLimit(10))
//	  if err != nil { log.Fatal(err) }
//
//	  for _, item := range articles.Data {
//	    log.Println(item.ID, item.FieldString("title"))
//	  }
//	}
//
// # Asynchronous operations
//
// Endpoints that answer 202 with a job (bulk operations, environment forks,
// model and field changes) are awaited transparently: the client polls the
// job result and returns the final resource, or an error wrapping
// dato.ErrJobFailed.
//
// # Helpers
//
// NewWithToken and NewWithEnvironment cover the common cases. NewDashboard
// builds a client for the account-level Dashboard API.
package datocms
