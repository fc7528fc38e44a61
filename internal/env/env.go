// Package env fills config structs from CADENCE_* environment variables.
//
// A field is read from the variable named by its env tag. When the variable is
// unset the default tag is used instead; a variable set to "" is kept as is.
// Structs are walked recursively and any struct implementing Validator is
// validated once its fields are loaded.
package env

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"
)

// Validator is implemented by config structs that check their own values.
type Validator interface {
	Validate() error
}

// ErrInvalidValue reports a variable that does not parse into its field.
type ErrInvalidValue struct {
	Field  string
	EnvVar string
	Value  string
	Err    error
}

func (e ErrInvalidValue) Error() string {
	return fmt.Sprintf("invalid value for %s=%q (field: %s): %v", e.EnvVar, e.Value, e.Field, e.Err)
}

func (e ErrInvalidValue) Unwrap() error { return e.Err }

// ErrNotStructPointer is returned when Load is not given a pointer to a struct.
type ErrNotStructPointer struct {
	Type string
}

func (e ErrNotStructPointer) Error() string {
	return fmt.Sprintf("env.Load: argument must be a pointer to struct, got %s", e.Type)
}

// ErrUnsupportedType is returned for a tagged field of a kind Load cannot set.
type ErrUnsupportedType struct {
	Kind string
}

func (e ErrUnsupportedType) Error() string {
	return fmt.Sprintf("unsupported type: %s", e.Kind)
}

var durationType = reflect.TypeFor[time.Duration]()

// Load populates the struct v points to. Supported field types are string,
// bool, signed integers and time.Duration.
func Load(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer{Type: fmt.Sprintf("%T", v)}
	}
	return load(rv.Elem())
}

// load fills s and then validates it, so nested structs are checked before
// the struct that contains them.
func load(s reflect.Value) error {
	for i := range s.NumField() {
		field := s.Field(i)
		if !field.CanSet() {
			continue
		}
		sf := s.Type().Field(i)

		if field.Kind() == reflect.Struct {
			if err := load(field); err != nil {
				return err
			}
			continue
		}

		name := sf.Tag.Get("env")
		if name == "" {
			continue
		}
		value, ok := os.LookupEnv(name)
		if !ok {
			if value, ok = sf.Tag.Lookup("default"); !ok {
				continue
			}
		}
		if err := set(field, value); err != nil {
			return ErrInvalidValue{Field: sf.Name, EnvVar: name, Value: value, Err: err}
		}
	}

	if v, ok := s.Addr().Interface().(Validator); ok {
		return v.Validate()
	}
	return nil
}

func set(field reflect.Value, value string) error {
	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
	case field.Kind() == reflect.String:
		field.SetString(value)
	case field.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case field.CanInt():
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	default:
		return ErrUnsupportedType{Kind: field.Kind().String()}
	}
	return nil
}
