// Package errors provides structured, coded error values for Kayak.
//
// Every error condition the reconciliation core can report has a unique code
// (e.g. "K001") that maps to a short message, a longer explanation and a
// category:
//   - structure: tree invariant violations (duplicate node, cycle, unknown parent)
//   - render: failures while running widget render functions during a frame
//   - config: kayak.json loading and validation
//   - cli: command line usage errors
//
// Structural violations are programmer errors in the calling layer, so the
// tree panics with a *KayakError instead of returning it. Everything else is
// returned as a normal error and can be inspected with errors.As.
//
// # Usage
//
//	err := errors.New("K003").
//	    WithDetail(fmt.Sprintf("parent %v is not in the tree", parent)).
//	    WithSuggestion("Add the parent before adding its children")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR K003: Unknown parent node
//	//
//	//   parent n4v1 is not in the tree
//	//
//	//   Hint: Add the parent before adding its children
package errors
