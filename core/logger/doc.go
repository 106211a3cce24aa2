// Package logger provides structured logging utilities built on Go's standard slog package.
//
// Create loggers with the factory function:
//
//	log := logger.New(logger.WithDevelopment("swimlive"))
//	log := logger.New(logger.WithProduction("swimlive"), logger.WithOutput(os.Stderr))
//
// Attribute helpers keep key names consistent across the relay:
//
//	log.Info("event changed",
//		logger.Component("race"),
//		logger.EventID("12"),
//		logger.Heat("3"),
//		logger.Count("expected_splits", 2),
//	)
//
//	log.Warn("chunk dropped", logger.Component("transfer"), logger.File(name), logger.Error(err))
//
// Helpers that receive a zero value (nil error, empty id) return an empty slog.Attr,
// which slog ignores, so call sites never need nil checks.
//
// Capture logs in tests:
//
//	var buf bytes.Buffer
//	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
package logger
