package store

import (
	"fmt"
	"reflect"
	"strings"
)

// assignments builds the SET clause of an update from a patch struct. Every non-nil pointer
// field with a db tag becomes "column=?" with the pointed-to value. A nil field whose column is
// in nulls is set to NULL, unless the field is tagged create:"required", which yields
// ErrRequiredValue. Other nil fields and non-pointer fields are left alone. Embedded structs are
// walked as if their fields were declared in the outer struct.
func assignments(patch any, nulls map[string]bool) (string, []any, error) {
	v := reflect.Indirect(reflect.ValueOf(patch))
	if v.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("patch must be a struct, got %s", v.Kind())
	}
	var sets []string
	var args []any
	if err := collectAssignments(v, nulls, &sets, &args); err != nil {
		return "", nil, err
	}
	if len(sets) == 0 {
		return "", nil, ErrNoChanges
	}
	return strings.Join(sets, ", "), args, nil
}

func collectAssignments(v reflect.Value, nulls map[string]bool, sets *[]string, args *[]any) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		value := v.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := collectAssignments(value, nulls, sets, args); err != nil {
				return err
			}
			continue
		}
		column := field.Tag.Get("db")
		if !field.IsExported() || column == "" || column == "-" || field.Type.Kind() != reflect.Pointer {
			continue
		}
		switch {
		case !value.IsNil():
			*sets = append(*sets, column+"=?")
			*args = append(*args, value.Elem().Interface())
		case nulls[column]:
			if field.Tag.Get("create") == "required" {
				return fmt.Errorf("%w: %s", ErrRequiredValue, column)
			}
			*sets = append(*sets, column+"=NULL")
		}
	}
	return nil
}
