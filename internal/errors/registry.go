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
	// Template Errors (B100-B119)
	// ============================================

	"B101": {
		Category: CategoryTemplate,
		Message:  "Template without block",
		Detail:   "Every template must name the block it applies to. Element templates need both block and elem.",
	},
	"B102": {
		Category: CategoryRender,
		Message:  "Element outside of a block",
		Detail:   "An elem node was found where no enclosing block is in scope. Set block on the node or nest it inside a block.",
	},
	"B103": {
		Category: CategoryTemplate,
		Message:  "Invalid template file",
		Detail:   "A template file must contain a list of template objects, or a single template object.",
	},

	// ============================================
	// Config and Project Errors (B120-B159)
	// ============================================

	"B120": {
		Category: CategoryConfig,
		Message:  "Invalid bemhtml.json",
		Detail:   "The configuration file contains invalid JSON.",
	},
	"B121": {
		Category: CategoryConfig,
		Message:  "Unknown naming preset",
		Detail:   "The naming preset must be \"origin\" or \"two-dashes\".",
	},
	"B122": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A value in bemhtml.json is out of range.",
	},
	"B140": {
		Category: CategoryCLI,
		Message:  "Directory already exists",
		Detail:   "The target directory for the new project already exists.",
	},
	"B141": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No bemhtml.json file was found at the given path.",
	},

	"B145": {
		Category: CategoryCLI,
		Message:  "Unknown project template",
		Detail:   "The requested project template does not exist.",
	},
	"B147": {
		Category: CategoryCLI,
		Message:  "Invalid project name",
		Detail:   "Project names may contain letters, digits, hyphens and underscores.",
	},

	// ============================================
	// Input Errors (B200-B219)
	// ============================================

	"B201": {
		Category: CategoryInput,
		Message:  "Failed to decode BEMJSON",
		Detail:   "The input is not a valid document in the selected format.",
	},
	"B202": {
		Category: CategoryInput,
		Message:  "Unsupported input format",
		Detail:   "Supported formats are json, yaml and msgpack.",
	},

	// ============================================
	// Publish Errors (B300-B319)
	// ============================================

	"B301": {
		Category: CategoryPublish,
		Message:  "Publish failed",
		Detail:   "The rendered HTML could not be uploaded.",
	},
	"B302": {
		Category: CategoryPublish,
		Message:  "Missing bucket",
		Detail:   "Publishing requires an S3 bucket, set with --bucket or publish.bucket in bemhtml.json.",
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
