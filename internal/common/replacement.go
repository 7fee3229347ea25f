// Package common provides configuration, logging and small shared helpers.
//
// Config string values may reference variables from a .env file using the
// {NAME} syntax:
//
//	Input:  api_key = "{OPENAI_API_KEY}"
//	Env:    OPENAI_API_KEY=sk-12345
//	Output: api_key = "sk-12345"
//
// Replacement is case-sensitive. Missing names are logged and left unchanged.
package common

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/ternarybob/arbor"
)

// keyRefPattern matches {NAME} references in strings
var keyRefPattern = regexp.MustCompile(`\{([a-zA-Z0-9_-]+)\}`)

// ReplaceKeyReferences replaces all {NAME} references in input with values
// from vars. Unknown references are left unchanged.
func ReplaceKeyReferences(input string, vars map[string]string, logger arbor.ILogger) string {
	if input == "" {
		return input
	}

	return keyRefPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := match[1 : len(match)-1]
		if value, exists := vars[name]; exists {
			return value
		}
		logger.Warn().Str("reference", match).Msg("Unresolved config reference")
		return match
	})
}

// ReplaceInStruct walks a struct pointer and replaces {NAME} references in
// string fields, string slices and nested structs in place.
func ReplaceInStruct(v interface{}, vars map[string]string, logger arbor.ILogger) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr {
		return fmt.Errorf("ReplaceInStruct requires a pointer, got %T", v)
	}

	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("ReplaceInStruct requires a struct pointer, got pointer to %v", val.Kind())
	}

	replaceInStructValue(val, vars, logger)
	return nil
}

func replaceInStructValue(val reflect.Value, vars map[string]string, logger arbor.ILogger) {
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			oldValue := field.String()
			if newValue := ReplaceKeyReferences(oldValue, vars, logger); newValue != oldValue {
				field.SetString(newValue)
				logger.Debug().Str("field", typ.Field(i).Name).Msg("Replaced config reference")
			}

		case reflect.Struct:
			replaceInStructValue(field, vars, logger)

		case reflect.Ptr:
			if !field.IsNil() && field.Elem().Kind() == reflect.Struct {
				replaceInStructValue(field.Elem(), vars, logger)
			}

		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				for j := 0; j < field.Len(); j++ {
					elem := field.Index(j)
					elem.SetString(ReplaceKeyReferences(elem.String(), vars, logger))
				}
			}
		}
	}
}
