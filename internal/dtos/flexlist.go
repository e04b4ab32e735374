package dtos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FlexList is a list field that clients send in several shapes: a JSON array in
// a JSON body, or text in a multipart form holding either a JSON array or a
// comma separated list. It is decoded once here so services only see typed values.
type FlexList struct {
	raw    []byte
	isJSON bool
	set    bool
}

// UnmarshalJSON accepts an array, a string, or null.
func (f *FlexList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = FlexList{}
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return f.UnmarshalParam(s)
	case len(b) > 0 && b[0] == '[':
		*f = FlexList{raw: append([]byte(nil), b...), isJSON: true, set: true}
	default:
		return fmt.Errorf("expected array or string, got %s", b)
	}
	return nil
}

// UnmarshalParam implements gin's binding.BindUnmarshaler for form values.
func (f *FlexList) UnmarshalParam(param string) error {
	param = strings.TrimSpace(param)
	if param == "" {
		*f = FlexList{}
		return nil
	}
	*f = FlexList{raw: []byte(param), isJSON: strings.HasPrefix(param, "["), set: true}
	return nil
}

// IsSet reports whether the client supplied a non-empty value.
func (f FlexList) IsSet() bool { return f.set }

// Strings returns the trimmed, non-empty items. It returns nil when unset.
func (f FlexList) Strings() []string {
	if !f.set {
		return nil
	}
	var items []string
	if f.isJSON {
		var anyItems []any
		if err := json.Unmarshal(f.raw, &anyItems); err == nil {
			for _, it := range anyItems {
				if s, ok := it.(string); ok {
					items = append(items, s)
				} else if it != nil {
					items = append(items, fmt.Sprint(it))
				}
			}
		}
	} else {
		items = strings.Split(string(f.raw), ",")
	}

	out := make([]string, 0, len(items))
	for _, it := range items {
		if s := strings.TrimSpace(it); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Decode unmarshals the JSON array held by f into v. Unset lists leave v untouched.
func (f FlexList) Decode(v any) error {
	if !f.set {
		return nil
	}
	if !f.isJSON {
		return fmt.Errorf("expected a JSON array")
	}
	return json.Unmarshal(f.raw, v)
}

// NewFlexList builds a list from items, for callers constructing requests in code.
func NewFlexList(items ...string) FlexList {
	b, _ := json.Marshal(items)
	return FlexList{raw: b, isJSON: true, set: true}
}
