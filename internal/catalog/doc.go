// Package catalog models the library's web user service: its two response
// families and the HTTP client that fetches them.
//
// # Endpoints
//
//   - GET <base>/GetCatalogueItems?CatalogueNumber=<id>: title metadata plus
//     one Item element per physical copy (ItemNo, OwnerDescription,
//     CurrentStatus, StatusChangeDate, IsReserved).
//   - GET <base>/GetStockStatusInfo?BacNo=<id>&ExpandBranchInfo=1: one Branch
//     element per branch (Name, Copies) with nested Item elements (SHELF,
//     IsOnLoan, DueDate).
//
// The two families stay separate types (Copy and Branch/StockItem) because
// their fields and status encodings differ.
//
// # Status codes
//
// CurrentStatus codes were learned by observation and form a closed set:
//
//	0, 11  -> StatusAvailable
//	10, 16 -> StatusOnLoan
//
// IsOnLoan uses 0 (available) and 64 (on loan). Any other value fails with
// *UnrecognizedStatusError so that a new code is never misread as available.
//
// # Parsing
//
// Elements are matched by local name, ignoring namespaces. Missing required
// elements and unparsable integers or dates yield *MalformedResponseError.
// Empty date text means the date is absent and is represented by the zero
// time.Time. Dates use the dd/mm/yyyy layout and are returned as UTC
// midnight.
//
// # Errors
//
//   - *UnrecognizedStatusError (ErrUnrecognizedStatus): unmapped status code
//   - *MalformedResponseError (ErrMalformedResponse): schema violation
//   - *TransportError (ErrTransport): request failed, timed out or returned
//     an HTTP error status; retryable on the next scheduled run
//
// The client never retries on its own.
package catalog
