// Package logger provides the structured logging interface used across ghscraper.
//
// It wraps zerolog. A Logger is built once at start-up from config.LoggingConfig
// and handed to every component that logs; there is no package-level logger.
//
//	log, err := logger.New(&cfg.Logging)
//	if err != nil {
//	    return err
//	}
//	log.WithField("location", "Sydney").Info("Searching users")
//	log.InfoWithFields("Requesting", map[string]interface{}{
//	    "url":    "https://api.github.com/search/users",
//	    "status": 200,
//	})
//
// Console output is colourised by default; set Format to "json" for machine
// readable lines. When File is set, JSON lines are also appended to that file.
//
// Tests use NewNopLogger or NewTestLogger, which records messages for assertions.
package logger
