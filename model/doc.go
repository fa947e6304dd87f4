// Package model holds the persisted entities of the listings marketplace and
// registers them for migration.
package model
