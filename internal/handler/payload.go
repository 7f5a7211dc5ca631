package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// scalarText returns the text of a JSON string or number literal. ok is
// false for null and for blank strings.
func scalarText(data []byte) (text string, ok bool, err error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		return "", false, nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		err := json.Unmarshal(data, &s)
		if err != nil {
			return "", false, err
		}
		s = strings.TrimSpace(s)
		return s, s != "", nil
	}

	switch {
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		return string(data), true, nil
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		return string(data), true, nil
	default:
		return "", false, fmt.Errorf("expected a string or number, got %s", data)
	}
}

// flexFloat decodes a JSON number or a numeric string.
type flexFloat struct {
	value float64
	set   bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	text, ok, err := scalarText(data)
	if err != nil || !ok {
		*f = flexFloat{}
		return err
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%q is not a number", text)
	}

	*f = flexFloat{value: v, set: true}
	return nil
}

func (f flexFloat) ptr() *float64 {
	if !f.set {
		return nil
	}
	v := f.value
	return &v
}

// flexInt decodes a JSON number or a numeric string, rounding fractions
// to the nearest integer.
type flexInt struct {
	value int64
	set   bool
}

func (n *flexInt) UnmarshalJSON(data []byte) error {
	var f flexFloat
	err := f.UnmarshalJSON(data)
	if err != nil {
		return err
	}
	if !f.set {
		*n = flexInt{}
		return nil
	}

	rounded := math.Round(f.value)
	if rounded >= math.MaxInt64 || rounded < math.MinInt64 {
		return fmt.Errorf("%v is out of range", f.value)
	}

	*n = flexInt{value: int64(rounded), set: true}
	return nil
}

func (n flexInt) ptr() *int {
	if !n.set {
		return nil
	}
	v := int(n.value)
	return &v
}

// flexString decodes a JSON string, or a number or boolean as its text.
type flexString struct {
	value string
	set   bool
}

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		*s = flexString{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var v string
		err := json.Unmarshal(data, &v)
		if err != nil {
			return err
		}
		*s = flexString{value: v, set: true}
		return nil
	}

	text, _, err := scalarText(data)
	if err != nil {
		return err
	}
	*s = flexString{value: text, set: true}
	return nil
}

func (s flexString) ptr() *string {
	if !s.set {
		return nil
	}
	v := s.value
	return &v
}
