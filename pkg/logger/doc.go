// Package logger provides structured logging for cardfetch.
//
// It wraps zerolog behind the Logger interface so that components can be
// handed a logger explicitly (tests use NewTestLogger or NewNopLogger) or fall
// back to the global one.
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	logger.WithField("card_id", "46986414").Info("Download completed")
//
// Console output is colored and written to stderr; when LoggingConfig.File is
// set, JSON lines are also appended to that file.
package logger
