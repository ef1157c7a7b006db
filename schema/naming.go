package schema

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

// pluralizeClient is shared; the client is safe for concurrent reads.
var pluralizeClient = pluralizer.NewClient()

// ColumnName converts a Go field name to its default snake_case column name.
func ColumnName(fieldName string) string {
	return toSnakeCase(fieldName)
}

// TableName converts a Go struct name to its default table name: plural
// snake_case.
func TableName(structName string) string {
	return pluralize(toSnakeCase(structName))
}

// toSnakeCase handles acronyms and digits: UserID -> user_id, HTTPServer ->
// http_server, OAuth2Token -> o_auth2_token.
func toSnakeCase(name string) string {
	if name == "" {
		return ""
	}

	switch name {
	case "ID":
		return "id"
	case "UUID":
		return "uuid"
	case "URL":
		return "url"
	case "API":
		return "api"
	case "JSON":
		return "json"
	}

	if strings.Contains(name, "_") && !hasUpperCase(name) {
		return name
	}

	var result strings.Builder
	result.Grow(len(name) + 8)

	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			// aB -> a_b, a1B -> a1_b, ABc -> a_bc
			if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
				(unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
				result.WriteByte('_')
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}

	return result.String()
}

func pluralize(name string) string {
	if name == "" {
		return ""
	}

	switch strings.ToLower(name) {
	case "person":
		return preserveCase(name, "people")
	case "datum":
		return preserveCase(name, "data")
	case "criterion":
		return preserveCase(name, "criteria")
	}

	// Only the last word of a snake_case name is inflected.
	if i := strings.LastIndexByte(name, '_'); i >= 0 && i < len(name)-1 {
		return name[:i+1] + pluralize(name[i+1:])
	}

	return preserveCase(name, pluralizeClient.Plural(name))
}

func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func preserveCase(original, result string) string {
	if original == "" || result == "" {
		return result
	}
	if strings.ToLower(original) == original {
		return strings.ToLower(result)
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(result)
	}
	if unicode.IsUpper(rune(original[0])) {
		return strings.ToUpper(result[:1]) + strings.ToLower(result[1:])
	}
	return strings.ToLower(result)
}
