package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E100-E199)
	// ============================================

	"E101": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Module path not found",
		Detail:   "The routes import path could not be derived from go.mod.",
	},

	// ============================================
	// Scan Errors (E200-E299)
	// ============================================

	"E201": {
		Category: CategoryScan,
		Message:  "Routes directory not found",
	},
	"E202": {
		Category: CategoryScan,
		Message:  "Route file could not be parsed",
	},
	"E203": {
		Category: CategoryScan,
		Message:  "Route file name is not buildable",
		Detail:   "The go tool refuses file names starting with anything but a letter or digit.",
	},

	// ============================================
	// Validation Errors (E300-E399)
	// ============================================

	"E300": {
		Category: CategoryValidation,
		Message:  "Route validation failed",
	},
	"E301": {
		Category: CategoryValidation,
		Message:  "Duplicate layout",
		Detail:   "A directory may define at most one layout.",
	},
	"E302": {
		Category: CategoryValidation,
		Message:  "Duplicate route",
		Detail:   "Two route files register the same method for the same URL pattern.",
	},
	"E303": {
		Category: CategoryValidation,
		Message:  "Ambiguous handler",
		Detail:   "A route file declares both a bare and a prefixed handler for one method.",
	},
	"E304": {
		Category: CategoryValidation,
		Message:  "Duplicate handler name",
		Detail:   "Two files of the same package declare the same handler function.",
	},
	"E305": {
		Category: CategoryValidation,
		Message:  "Missing layout function",
		Detail:   "layout.go must declare an exported Layout function.",
	},
	"E306": {
		Category: CategoryValidation,
		Message:  "Route pattern conflict",
		Detail:   "Two route patterns compete for the same path position.",
	},

	// ============================================
	// Output Errors (E400-E499)
	// ============================================

	"E401": {
		Category: CategoryOutput,
		Message:  "Failed to write generated file",
	},
	"E402": {
		Category: CategoryOutput,
		Message:  "Generated code is not valid Go",
		Detail:   "The generator produced source that gofmt rejected. This is a fileroute bug.",
	},
	"E403": {
		Category: CategoryOutput,
		Message:  "Failed to write metrics file",
	},

	// ============================================
	// CLI Errors (E500-E599)
	// ============================================

	"E501": {
		Category: CategoryCLI,
		Message:  "File already exists",
	},
	"E502": {
		Category: CategoryCLI,
		Message:  "Invalid route path",
	},
	"E503": {
		Category: CategoryCLI,
		Message:  "Unknown HTTP method",
		Detail:   "Supported methods are get, post, put, delete and patch.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
