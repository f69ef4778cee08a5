// Package store persists listing observations to PostgreSQL.
//
// Rows are partitioned by (item, capture date, capture hour). Append
// replaces the whole partition inside one transaction, so re-running a
// collection cycle for the same hour cannot duplicate rows. Rows carry no
// synthetic listing IDs; the stored columns are the identity.
package store
