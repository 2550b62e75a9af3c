// Package errors provides coded, actionable errors for the reactive module.
//
// Every error has a registered code that maps to a category, a short
// message and an optional fix hint:
//
//	err := errors.New("R001").WithDetail(`key "email"`)
//	fmt.Println(err)
//	// R001: You can only assign new values to existing properties in a reactive (key "email")
//
// Errors built from the same code match under errors.Is, which lets
// packages export sentinels while still returning a fresh error that names
// the offending key:
//
//	var ErrUnknownKey = errors.New("R001")
//	...
//	stderrors.Is(errors.New("R001").WithDetail("k"), ErrUnknownKey) // true
//
// # Error Categories
//
//   - access: writes that break the fixed-shape contract of a reactive
//   - cell: misuse of the cell escape hatch
//   - config: configuration parse and validation failures
//   - source: loading and saving state
//   - cli: command line usage
package errors
