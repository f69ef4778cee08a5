// Package fetch implements the listing-page fetcher boundary.
//
// A Client fetches one page of the bazaar feed for an (item, page) pair and
// returns a tagged PageResult: StatusOK with parsed records, or StatusEmpty
// when the feed reports no listings for the item. Transport failures are
// returned as errors; *FetchError carries the HTTP status and reports
// whether an external retry policy should retry it.
//
// HTML parsing rules for the site template live behind the RowExtractor
// interface. TableExtractor is the default implementation for the bazaar
// search table.
package fetch
