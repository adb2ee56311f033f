package errors

import (
	"maps"
	"slices"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Structure Errors (K001-K009)
	// ============================================

	"K001": {
		Category: CategoryStructure,
		Message:  "Duplicate node",
		Detail:   "The node is already part of the tree. A NodeID may appear at most once; remove it before adding it again.",
	},
	"K002": {
		Category: CategoryStructure,
		Message:  "Cycle detected",
		Detail:   "Attaching the node under this parent would make it its own ancestor.",
	},
	"K003": {
		Category: CategoryStructure,
		Message:  "Unknown parent node",
		Detail:   "The parent node is not in the tree.",
	},
	"K004": {
		Category: CategoryStructure,
		Message:  "Invalid node ID",
		Detail:   "The zero NodeID is reserved and cannot be stored in a tree.",
	},

	// ============================================
	// Render Errors (K010-K019)
	// ============================================

	"K010": {
		Category: CategoryRender,
		Message:  "Widget render panicked",
		Detail:   "A widget's Render function panicked. The render of that subtree was aborted and its previous shape was kept.",
	},
	"K011": {
		Category: CategoryRender,
		Message:  "Tree invariant check failed",
		Detail:   "The authoritative tree violates the parent/children consistency invariants after a frame.",
	},

	// ============================================
	// Config Errors (K020-K029)
	// ============================================

	"K020": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "A value in kayak.json is out of range or malformed.",
	},
	"K021": {
		Category: CategoryConfig,
		Message:  "Configuration file unreadable",
		Detail:   "kayak.json could not be read or is not valid JSON.",
	},
	"K022": {
		Category: CategoryConfig,
		Message:  "Configuration file exists",
		Detail:   "A kayak.json is already present in the target directory.",
	},

	// ============================================
	// CLI Errors (K030-K039)
	// ============================================

	"K030": {
		Category: CategoryCLI,
		Message:  "Invalid flag value",
		Detail:   "A command line flag has a value that cannot be used.",
	},
	"K031": {
		Category: CategoryCLI,
		Message:  "Unknown error code",
		Detail:   "The code is not in the error registry. Run kayak errors to list them.",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	return slices.Sorted(maps.Keys(registry))
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
