package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FlexibleFloat accepts either a JSON number or a numeric string such as "12.5".
// The browser client sends form values as strings.
type FlexibleFloat float64

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexibleFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || !finite(v) {
			return fmt.Errorf("invalid numeric value %q", s)
		}
		*f = FlexibleFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil || !finite(v) {
		return fmt.Errorf("invalid numeric value %s", string(data))
	}
	*f = FlexibleFloat(v)
	return nil
}

// UnmarshalYAML accepts quoted and bare numbers in selection files
func (f *FlexibleFloat) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", value.Line)
	}
	if value.Tag == "!!null" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value.Value), 64)
	if err != nil || !finite(v) {
		return fmt.Errorf("line %d: invalid numeric value %q", value.Line, value.Value)
	}
	*f = FlexibleFloat(v)
	return nil
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Float returns the value as float64
func (f FlexibleFloat) Float() float64 {
	return float64(f)
}

// FloatPtr converts an optional FlexibleFloat into an optional float64
func FloatPtr(f *FlexibleFloat) *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}
