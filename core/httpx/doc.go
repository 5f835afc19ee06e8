// Package httpx is the HTTP capability shared by API-based adapters.
//
// A Request names method, URL, query, headers, body and an optional timeout; Do returns
// the fully read Response. Connection failures, timeouts and non-2xx statuses are
// returned as provider.ErrTransient so adapters can turn them into zero-slot results.
// Each call runs under its own deadline, there is no retry at this level.
package httpx
