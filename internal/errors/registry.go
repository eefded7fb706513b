package errors

// template holds the registered fields for a known error code.
type template struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]template{
	"E001": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Detail:     "fern.json could not be located in the project directory.",
		Suggestion: "Run the CLI from the project root, or pass --config with an explicit path.",
	},
	"E002": {
		Category:   CategoryConfig,
		Message:    "Configuration file is invalid",
		Detail:     "fern.json exists but could not be parsed as JSON.",
		Suggestion: "Check fern.json for trailing commas or unquoted keys.",
	},
	"E010": {
		Category:   CategoryContent,
		Message:    "Fragment not found",
		Detail:     "The requested markup fragment does not exist in the content source.",
		Suggestion: "Verify the fragment name and the configured fragments directory or bucket prefix.",
	},
	"E011": {
		Category:   CategoryContent,
		Message:    "Data payload could not be loaded",
		Detail:     "The JSON data payload was missing or unreadable. Rendering continues without it.",
		Suggestion: "Check the configured data file or object key.",
	},
	"E020": {
		Category:   CategoryExpression,
		Message:    "Expression could not be parsed",
		Suggestion: "Expressions support literals, property paths, comparisons, arithmetic, and ternaries. Method calls are not allowed.",
	},
	"E030": {
		Category:   CategoryDirective,
		Message:    "Malformed repeat directive",
		Detail:     "A for attribute did not match the \"<ident> in <expr>\" shape and was skipped.",
		Suggestion: "Write the directive as for=\"item in items\".",
	},
}
