package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://docroutes.vango.dev/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Table Errors (E100-E109)
	// ============================================

	"E100": {
		Category: CategoryTable,
		Message:  "Route table is invalid",
		DocURL:   docBase + "E100",
	},
	"E101": {
		Category: CategoryTable,
		Message:  "Route manifest could not be parsed",
		DocURL:   docBase + "E101",
	},
	"E102": {
		Category: CategoryTable,
		Message:  "Unknown route manifest format",
		Detail:   "Supported formats are json, yaml, toml and the generated routes.js module.",
		DocURL:   docBase + "E102",
	},

	// ============================================
	// Source Errors (E110-E119)
	// ============================================

	"E110": {
		Category: CategorySource,
		Message:  "Route table source could not be read",
		DocURL:   docBase + "E110",
	},
	"E111": {
		Category: CategorySource,
		Message:  "Route table source not found",
		DocURL:   docBase + "E111",
	},

	// ============================================
	// Config Errors (E120-E129)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		DocURL:   docBase + "E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		DocURL:   docBase + "E121",
	},

	// ============================================
	// Request Errors (E130-E139)
	// ============================================

	"E130": {
		Category: CategoryRequest,
		Message:  "Request path rejected",
		DocURL:   docBase + "E130",
	},
	"E131": {
		Category: CategoryRequest,
		Message:  "Unauthorized",
		Detail:   "A valid bearer token is required for this endpoint.",
		DocURL:   docBase + "E131",
	},

	// ============================================
	// CLI Errors (E140-E149)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Invalid command usage",
		DocURL:   docBase + "E140",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
