// Package redis connects to Redis and relays broadcast payloads over PUBLISH.
//
// The relay is optional. When REDIS_URL is set, every message the hub sends to
// display clients is also published to REDIS_CHANNEL, so remote scoreboards or
// archiving services can subscribe without a WebSocket connection to the pool PC.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	relay, err := redis.NewRelay(client, cfg.Channel)
//	if err != nil {
//		return err
//	}
//	h := hub.New(q, snapshot, hub.WithSink(relay))
//	ready := health.Readiness(log, redis.Healthcheck(client))
//
// Connect validates the URL (redis:// or rediss://), then pings with a fixed
// retry interval until the server answers or the attempts run out.
//
// Errors are stable sentinels for errors.Is:
//
//   - ErrEmptyConnectionURL: no URL configured
//   - ErrFailedToParseRedisConnString: malformed URL
//   - ErrRedisNotReady: no successful ping within the attempts
//   - ErrHealthcheckFailed: ping failed during a readiness check
//   - ErrEmptyChannel: relay created without a channel name
package redis
