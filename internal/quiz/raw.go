package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the shape of a raw payload value.
type Kind int

const (
	// KindAbsent is a missing or null value.
	KindAbsent Kind = iota
	// KindText is a JSON string.
	KindText
	// KindRecord is a JSON object.
	KindRecord
	// KindOther covers numbers, booleans and arrays.
	KindOther
)

// String returns a readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindText:
		return "string"
	case KindRecord:
		return "record"
	default:
		return "other"
	}
}

// Field is one key/value pair of a record, kept in source order.
type Field struct {
	Name  string
	Value Value
}

// Value is a decoded JSON value that remembers object key order.
type Value struct {
	Kind   Kind
	Text   string
	Fields []Field
	Items  []Value
	// Literal holds the raw JSON of numbers and booleans.
	Literal string
}

// RawQuestion is a question payload as returned by the backend.
type RawQuestion = Value

// RawAnswer is an answer payload as returned by the backend.
type RawAnswer = Value

// RawOption is an option payload inside a record question.
type RawOption = Value

// TextValue builds a string value.
func TextValue(text string) Value {
	return Value{Kind: KindText, Text: text}
}

// RecordValue builds a record value from ordered fields.
func RecordValue(fields ...Field) Value {
	return Value{Kind: KindRecord, Fields: fields}
}

// F is shorthand for a record field.
func F(name string, value Value) Field {
	return Field{Name: name, Value: value}
}

// NumberValue builds a numeric value.
func NumberValue(n int) Value {
	return Value{Kind: KindOther, Literal: strconv.Itoa(n)}
}

// Get returns the first field with the exact name.
func (v Value) Get(name string) (Value, bool) {
	for _, field := range v.Fields {
		if field.Name == name {
			return field.Value, true
		}
	}
	return Value{}, false
}

// IsArray reports whether the value is a JSON array.
func (v Value) IsArray() bool {
	return v.Kind == KindOther && v.Items != nil
}

// Truthy mirrors loose truthiness: empty strings, zero, false and null are falsy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindAbsent:
		return false
	case KindText:
		return v.Text != ""
	case KindRecord:
		return true
	default:
		if v.Items != nil {
			return true
		}
		switch v.Literal {
		case "", "false", "0", "-0":
			return false
		}
		if f, err := strconv.ParseFloat(v.Literal, 64); err == nil && f == 0 {
			return false
		}
		return true
	}
}

// String renders the value as text for display and letter extraction.
func (v Value) String() string {
	switch v.Kind {
	case KindAbsent:
		return ""
	case KindText:
		return v.Text
	case KindRecord:
		return "[object]"
	default:
		if v.Items != nil {
			parts := make([]string, 0, len(v.Items))
			for _, item := range v.Items {
				parts = append(parts, item.String())
			}
			return strings.Join(parts, ",")
		}
		return v.Literal
	}
}

// PositiveInt returns the value as a positive integer when it is one.
func (v Value) PositiveInt() (int, bool) {
	if v.Kind != KindOther || v.Items != nil {
		return 0, false
	}
	n, err := strconv.Atoi(v.Literal)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// UnmarshalJSON decodes any JSON value, preserving object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	decoded, err := decodeValue(decoder)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// MarshalJSON encodes the value back to JSON with its original key order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindAbsent:
		return []byte("null"), nil
	case KindText:
		return json.Marshal(v.Text)
	case KindRecord:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, field := range v.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			name, err := json.Marshal(field.Name)
			if err != nil {
				return nil, err
			}
			buf.Write(name)
			buf.WriteByte(':')
			inner, err := field.Value.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(inner)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		if v.Items != nil {
			return json.Marshal(v.Items)
		}
		if v.Literal == "" {
			return []byte("null"), nil
		}
		return []byte(v.Literal), nil
	}
}

func decodeValue(decoder *json.Decoder) (Value, error) {
	token, err := decoder.Token()
	if err != nil {
		return Value{}, fmt.Errorf("decode value: %w", err)
	}
	switch typed := token.(type) {
	case nil:
		return Value{Kind: KindAbsent}, nil
	case string:
		return TextValue(typed), nil
	case json.Number:
		return Value{Kind: KindOther, Literal: typed.String()}, nil
	case bool:
		return Value{Kind: KindOther, Literal: strconv.FormatBool(typed)}, nil
	case json.Delim:
		switch typed {
		case '{':
			record := Value{Kind: KindRecord, Fields: []Field{}}
			for decoder.More() {
				keyToken, err := decoder.Token()
				if err != nil {
					return Value{}, fmt.Errorf("decode key: %w", err)
				}
				key, ok := keyToken.(string)
				if !ok {
					return Value{}, fmt.Errorf("decode key: unexpected %v", keyToken)
				}
				inner, err := decodeValue(decoder)
				if err != nil {
					return Value{}, err
				}
				record.Fields = append(record.Fields, Field{Name: key, Value: inner})
			}
			if _, err := decoder.Token(); err != nil {
				return Value{}, fmt.Errorf("decode object end: %w", err)
			}
			return record, nil
		case '[':
			array := Value{Kind: KindOther, Items: []Value{}}
			for decoder.More() {
				inner, err := decodeValue(decoder)
				if err != nil {
					return Value{}, err
				}
				array.Items = append(array.Items, inner)
			}
			if _, err := decoder.Token(); err != nil {
				return Value{}, fmt.Errorf("decode array end: %w", err)
			}
			return array, nil
		}
	}
	return Value{}, fmt.Errorf("decode value: unexpected token %v", token)
}
