// Package db embeds the SQL schema applied at service startup.
package db

import _ "embed"

// Schema holds the DDL for the customer, product, consent, order, and
// audit tables. RunMigrations applies it idempotently.
//
//go:embed migrations/001_schema.sql
var Schema string
