// Package handler contains helpers to assemble HTTP handler implementations
// using a composable, clear, and simple API. It defines reusable components for
// request and response processing, which allows core handlers to implement
// only business logic that is unique to each endpoint.
//
// It is similar in principle to HTTP middlewares, but using a more structured
// approach with separate components and more useful types.
package handler
