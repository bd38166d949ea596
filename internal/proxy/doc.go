// Package proxy forwards item requests from the terminal client to the
// remote item service.
//
// The proxy is deliberately thin. It validates item dates, forwards the
// request body as JSON, and maps upstream failures onto JSON error bodies:
//
//   - an upstream non-2xx keeps its status with
//     {"error":"Request failed with status code N"}
//   - a transport failure becomes 500 with the transport error text
//   - any failure listing items becomes 500 {"error":"Failed to fetch items"}
//
// Request bodies may be JSON or application/x-www-form-urlencoded. TLS
// verification of the upstream can be turned off for self-signed demo
// deployments with INSECURE_SKIP_VERIFY; it is on by default.
package proxy
