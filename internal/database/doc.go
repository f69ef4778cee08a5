// Package database provides connection pool management for PostgreSQL.
//
// One database holds everything: the listing history partitioned by
// (item, date, hour) and the catalog tables mapping item names to feed
// page hashes and families.
package database
