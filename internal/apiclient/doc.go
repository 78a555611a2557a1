// Package apiclient is a small client for the Lakbay REST API list
// endpoints the reports read from.
//
// Requests carry a bearer token from a TokenSource and pass through a
// client-side rate limiter. Non-2xx answers come back as *StatusError;
// a 401 additionally matches ErrUnauthorized.
package apiclient
