// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package resultset

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindNull is the absent/NULL variant.
	KindNull Kind = iota
	// KindNumber holds a float64.
	KindNumber
	// KindText holds a string.
	KindText
)

// Value is a closed tagged union over the cell types a query can produce:
// null, number, or text. Classification and formatting switch on the tag
// rather than probing dynamic types.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Null returns the null Value.
func Null() Value { return Value{kind: KindNull} }

// Number returns a numeric Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text returns a text Value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Number returns the numeric payload. ok is false for null and text values.
func (v Value) Number() (f float64, ok bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Text returns the text payload. ok is false for null and numeric values.
func (v Value) Text() (s string, ok bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// String returns the value's natural string form: the text itself, the
// shortest decimal representation for numbers, and the empty string for null.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// MarshalJSON encodes the value as JSON null, number, or string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes JSON null, numbers, and strings into the matching
// variant. Booleans and composite values fold into text so the union stays
// closed over inputs the protocol does not promise.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Null()
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode text value: %w", err)
		}
		*v = Text(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("decode bool value: %w", err)
		}
		*v = Text(strconv.FormatBool(b))
		return nil
	case '{', '[':
		*v = Text(string(data))
		return nil
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("decode numeric value: %w", err)
		}
		*v = Number(f)
		return nil
	}
}
