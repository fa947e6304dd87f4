// Package database provides connection management over MySQL, PostgreSQL
// and SQLite, versioned migrations with foreign keys and indexes, SQL seed
// files, driver error classification and query logging, built on Bun.
package database
