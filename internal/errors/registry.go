package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Access Errors
	// ============================================

	"R001": {
		Category:   CategoryAccess,
		Message:    "You can only assign new values to existing properties in a reactive",
		Suggestion: "Declare every key in the initial state; the key set is fixed at construction",
	},
	"R002": {
		Category: CategoryAccess,
		Message:  "Cannot reassign functions on reactives",
	},
	"R003": {
		Category:   CategoryAccess,
		Message:    "Cannot assign new reactives to an existing reactive",
		Suggestion: "Pass the raw object instead, e.g. reactive.Raw(other)",
	},
	"R004": {
		Category: CategoryAccess,
		Message:  "Can only assign objects to reactive properties",
	},
	"R005": {
		Category: CategoryAccess,
		Message:  "Unsupported assignment",
	},
	"R009": {
		Category: CategoryAccess,
		Message:  "Invalid path",
	},
	"R010": {
		Category: CategoryAccess,
		Message:  "Property is not a method",
	},
	"R011": {
		Category:   CategoryAccess,
		Message:    "Function properties have no data value",
		Suggestion: "Call the method instead of reading it",
	},

	// ============================================
	// Cell Errors
	// ============================================

	"R006": {
		Category: CategoryCell,
		Message:  "Cannot get the cell of a function property",
	},
	"R007": {
		Category:   CategoryCell,
		Message:    "Cannot get the cell of a nested reactive",
		Suggestion: "Ask the nested reactive for the cell of one of its own keys",
	},
	"R008": {
		Category: CategoryCell,
		Message:  "Value does not fit the cell's type",
	},

	// ============================================
	// Config Errors (C100-C119)
	// ============================================

	"C100": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Suggestion: "Check that the file is valid JSON or YAML",
	},
	"C101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
	"C102": {
		Category:   CategoryConfig,
		Message:    "Configuration file already exists",
		Suggestion: "Pass --force to overwrite it",
	},

	// ============================================
	// Source Errors (S120-S139)
	// ============================================

	"S120": {
		Category: CategorySource,
		Message:  "Failed to load state",
	},
	"S121": {
		Category:   CategorySource,
		Message:    "Unsupported state format",
		Suggestion: "Use a .json, .yaml or .yml file",
	},
	"S122": {
		Category: CategorySource,
		Message:  "Failed to save state",
	},
}

// GetAllCodes returns every registered code, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template registered for code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces a template. Call it from init functions only.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
