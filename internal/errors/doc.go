// Package errors provides coded, actionable errors for docroutes.
//
// Every error surfaced to an operator (a bad config file, an invalid route
// table, a rejected request path) carries a short code such as "E100" that
// maps to a registered message, a detail paragraph and a documentation URL.
//
// # Categories
//
//   - config: docroutes.json problems
//   - table: route table validation and manifest decoding
//   - source: reading the table from disk or S3
//   - request: rejected resolution requests
//   - cli: command usage problems
//
// # Usage
//
//	err := errors.New("E100").
//	    WithDetail("route /docs/intro is listed after the wildcard").
//	    WithSuggestion("Move the * entry to the end of the table").
//	    Wrap(cause)
//
//	fmt.Fprintln(os.Stderr, err.Format())
package errors
