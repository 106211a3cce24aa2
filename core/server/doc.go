// Package server runs the scoreboard HTTP listener with graceful shutdown.
//
// It wraps http.Server, binds the listener before serving so Addr reports the
// real port, and plugs into an errgroup through Run:
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	g.Go(srv.Run(ctx, mux))
//
// Run returns nil when ctx is canceled and shuts the server down within the
// configured timeout. Upgraded WebSocket connections are hijacked and are not
// tracked by Shutdown; their owner closes them.
package server
