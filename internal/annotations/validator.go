package annotations

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/samber/lo"

	"github.com/toyz/serdescan/internal/errors"
)

// SchemaValidator defines the interface for validating markers against their schemas
type SchemaValidator interface {
	// Validate a marker against its schema
	Validate(marker *Marker, schema MarkerSchema, loc errors.SourceLocation) error

	// TransformParameters coerces parsed values to the types the schema declares
	TransformParameters(marker *Marker, schema MarkerSchema, loc errors.SourceLocation) error
}

// validator is the concrete implementation of SchemaValidator
type validator struct{}

// NewValidator creates a new schema validator
func NewValidator() SchemaValidator {
	return &validator{}
}

// Validate validates a marker against its schema. Defaults are not applied:
// the engine needs to tell an absent parameter from an explicit one.
func (v *validator) Validate(marker *Marker, schema MarkerSchema, loc errors.SourceLocation) error {
	all := errors.NewMultipleErrors()

	for paramName, paramSpec := range schema.Parameters {
		if paramSpec.Required && !marker.Has(paramName) {
			all.Add(errors.NewValidationError(marker.Name, paramName,
				fmt.Sprintf("required parameter of type %s", paramSpec.Type.String()), "missing").
				WithLocation(loc))
		}
	}

	for _, paramName := range sortedKeys(marker.Params) {
		paramValue := marker.Params[paramName]
		paramSpec, exists := schema.Parameters[paramName]
		if !exists {
			err := errors.NewValidationError(marker.Name, paramName, "known parameter", fmt.Sprintf("unknown parameter '%s'", paramName)).
				WithLocation(loc)
			if known := lo.Keys(schema.Parameters); len(known) > 0 {
				err.WithSuggestion(fmt.Sprintf("@%s accepts: %v", marker.SimpleName(), sortedNames(known)))
			}
			all.Add(err)
			continue
		}

		if err := v.validateParameterType(marker.Name, paramName, paramSpec, paramValue, loc); err != nil {
			all.Add(err)
		}
	}

	for _, customValidator := range schema.Validators {
		if err := customValidator(marker); err != nil {
			all.Add(errors.Wrap(errors.ValidationErrorCode, fmt.Sprintf("@%s: %v", marker.SimpleName(), err), err).
				WithLocation(loc))
		}
	}

	return all.ErrOrNil()
}

// TransformParameters transforms parameter values to correct types
func (v *validator) TransformParameters(marker *Marker, schema MarkerSchema, loc errors.SourceLocation) error {
	for paramName, paramValue := range marker.Params {
		paramSpec, exists := schema.Parameters[paramName]
		if !exists {
			continue // caught by Validate
		}

		transformed, err := v.transformParameterValue(paramValue, paramSpec.Type)
		if err != nil {
			return errors.NewValidationError(marker.Name, paramName,
				fmt.Sprintf("value convertible to %s", paramSpec.Type.String()),
				fmt.Sprintf("%v (%T)", paramValue, paramValue)).
				WithLocation(loc)
		}

		marker.Params[paramName] = transformed
	}

	return nil
}

// validateParameterType validates that a parameter value matches the expected type
func (v *validator) validateParameterType(marker, paramName string, spec ParameterSpec, value interface{}, loc errors.SourceLocation) errors.SerdeError {
	if !v.isCorrectType(value, spec.Type) {
		return errors.NewValidationError(marker, paramName, spec.Type.String(), fmt.Sprintf("%T", value)).
			WithLocation(loc)
	}

	if spec.Type == EnumType && !lo.Contains(spec.Values, string(value.(Enum))) {
		return errors.NewValidationError(marker, paramName, fmt.Sprintf("one of %v", spec.Values), string(value.(Enum))).
			WithLocation(loc)
	}

	return nil
}

// transformParameterValue attempts to transform a value to the target type
func (v *validator) transformParameterValue(value interface{}, targetType ParameterType) (interface{}, error) {
	if v.isCorrectType(value, targetType) {
		return value, nil
	}

	switch targetType {
	case StringType:
		switch val := value.(type) {
		case Enum:
			return string(val), nil
		case int:
			return strconv.Itoa(val), nil
		}
	case BoolType:
		if s, ok := value.(string); ok {
			return strconv.ParseBool(s)
		}
	case IntType:
		switch val := value.(type) {
		case string:
			return strconv.Atoi(val)
		case float64:
			return int(val), nil
		}
	case StringSliceType:
		switch val := value.(type) {
		case string:
			return []string{val}, nil
		case []interface{}:
			out := make([]string, 0, len(val))
			for _, item := range val {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("array element %v is not a string", item)
				}
				out = append(out, s)
			}
			return out, nil
		}
	case EnumType:
		if s, ok := value.(string); ok {
			return Enum(s), nil
		}
	case ClassType:
		switch val := value.(type) {
		case string:
			return ClassRef(val), nil
		case Enum:
			return ClassRef(val), nil
		}
	}

	return nil, fmt.Errorf("cannot convert %T to %s", value, targetType.String())
}

// isCorrectType checks if a value is already the correct type
func (v *validator) isCorrectType(value interface{}, targetType ParameterType) bool {
	var ok bool
	switch targetType {
	case StringType:
		_, ok = value.(string)
	case BoolType:
		_, ok = value.(bool)
	case IntType:
		_, ok = value.(int)
	case StringSliceType:
		_, ok = value.([]string)
	case EnumType:
		_, ok = value.(Enum)
	case ClassType:
		_, ok = value.(ClassRef)
	}
	return ok
}

func sortedNames(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}
