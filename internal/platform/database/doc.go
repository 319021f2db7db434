// Package database implements the record store on database/sql.
//
// Two drivers are supported: "pgx" (PostgreSQL, through pgx's stdlib
// adapter) for deployments and "sqlite" (modernc.org/sqlite) for local use
// and tests. The schema is managed by goose migrations embedded in the
// binary; the same SQL runs on both databases.
package database
