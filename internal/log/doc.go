// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// csvhash handles personal data and a secret salt. Neither may reach a log
// file, even in verbose mode, because logs are routinely attached to tickets
// and shared with the same third parties the pseudonymized extract is meant
// to protect against.
//
// # Security Features
//
// The SecureHandler automatically sanitizes:
//   - Secrets by key name (salt, password, token, api_key, ...)
//   - Raw identifiers by key name (value, email, phone, ...)
//   - Values that look like e-mail addresses, phone numbers, bearer tokens
//     or long opaque keys, whatever their key
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("hashing", "column", "Email", "salt", cfg.Salt) // salt=***REDACTED***
package log
