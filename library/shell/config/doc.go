// Package config loads the runtime configuration of the library service and builds its
// infrastructure from it: PostgreSQL pools for the pgx, database/sql and sqlx adapters
// and the OpenTelemetry tracer and meter providers.
//
// All settings come from LIBRARY_* environment variables (e.g. LIBRARY_DATABASE_URL,
// LIBRARY_LOAN_PERIOD_DAYS) or an optional library.yaml in the working directory.
//
// This package is part of the shell (infrastructure) layer.
package config
