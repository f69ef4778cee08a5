// Package model defines the core data types shared across bazaarwatch.
//
// Types:
//   - ListingRecord: one marketplace sell offer at scrape time (immutable)
//   - PartitionKey: (item, date, hour) storage location of a batch
//   - Observation: a stored record paired with its capture timestamp
//   - ObservationBatch: one scrape invocation's records for one item
//
// Prices are integer gold; the feed has no fractional currency units.
package model
