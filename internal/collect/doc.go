// Package collect drives the listing-page fetcher across pages and items.
//
// Collector walks one item's pages from page 0 and decides when to stop:
// either the feed explicitly reports no listings, or a page's raw content
// repeats the previous page's raw content (the feed serves the last page
// again past the end instead of an empty one). Collection is all-or-nothing
// per item; a mid-sequence fetch failure discards prior pages.
//
// Runner fans a collection cycle out over many items with bounded
// concurrency and appends each item's batch to the observation store. Items
// are independent: one item's failure never blocks the others.
package collect
