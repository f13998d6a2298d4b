// Package server exposes route resolution over HTTP.
//
// The server is a chi router around a resolver.Live:
//
//	GET  /_routes/resolve?path=/docs/intro   resolve one path to its chain
//	GET  /_routes/table                      current table, fingerprint, generation
//	GET  /_routes/ws                         reload notifications (WebSocket)
//	POST /_routes/reload                     reload from the configured source
//	GET  /healthz                            liveness
//	GET  /metrics                            Prometheus metrics
//	GET  /*                                  preview: the composed component chain
//
// Reloads replace the whole table atomically. Clients connected to
// /_routes/ws receive {"type":"reload"} after each successful swap and
// {"type":"error"} when a reload fails; the previous table stays in service.
//
// Example:
//
//	live := resolver.NewLive(table)
//	srv := server.New(live, &server.Config{Address: ":8080", Loader: src})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
