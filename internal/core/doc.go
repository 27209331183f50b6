// Package core provides the business logic for catalog imports and search.
//
// This package holds all domain logic independent of HTTP, queues or the
// database driver. Web handlers, the background worker and tests all drive
// the same [Service].
//
// # Import
//
// [Service.ProcessImport] takes up to two semicolon-delimited files that an
// upload handler has already saved to disk:
//
//  1. The families file is read, its headers checked, and every valid row
//     upserted by family code.
//  2. The products file is read and checked the same way. Family codes are
//     snapshotted once, then every row that passes the required-field,
//     family-reference and EAN checks is upserted by SKU.
//  3. Rejected rows are written to per-entity failure reports.
//
// A bad row never stops the file and a bad file never stops the other file.
// Only a [SystemError] (the store is unusable) aborts the call. There is no
// transaction around the import: rows written before an abort stay written.
//
// # Search
//
// [BuildSearchQuery] turns a flat filter map into a [SearchQuery] of typed
// predicates. Family-side filters (family_code, product_line, brand, status)
// match exactly; product-side filters (sku, name) match substrings. The
// [Store] evaluates the query over an inner join of products and families and
// [Service.Search] wraps the page with pagination metadata.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a code for support reference:
//
//   - DB001-DB007: Database errors (duplicates, constraints, connections)
//   - IMP001-IMP008: Import errors (missing, empty or malformed files)
//   - REQ001-REQ003: Request errors (cancelled, timed out, missing report)
package core
