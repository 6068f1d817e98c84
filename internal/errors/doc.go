// Package errors provides structured, actionable error messages for the
// bemhtml tools.
//
// Rendering itself never fails. Errors come from the code around it:
// template registration, BEMJSON decoding, configuration and publishing.
//
// # Error Codes
//
// Each error has a unique code (e.g., "B101") that maps to a category, a
// short message and a detailed explanation:
//
//   - B1xx: templates and configuration
//   - B2xx: input documents
//   - B3xx: publishing
//
// # Usage
//
//	err := errors.New("B101").
//	    WithLocation("templates.yaml", 12, 3).
//	    WithSuggestion("Add a block field to the template")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR B101: Template without block
//	//
//	//   templates.yaml:12:3
//	//
//	//   ...
//	//
//	//   Hint: Add a block field to the template
//
// Errors with the same code match with errors.Is:
//
//	if errors.Is(err, errors.New("B102")) { ... }
package errors
