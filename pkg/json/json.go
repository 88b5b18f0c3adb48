// Package json decodes and encodes the JSON documents exchanged by the
// strbuf tools. It wraps github.com/goccy/go-json.
package json

import (
	"bytes"
	"fmt"

	gojson "github.com/goccy/go-json"
)

// JSONObject represents a JSON object as a map from string keys to arbitrary values.
type JSONObject map[string]interface{}

// Parse takes a JSON-formatted string and returns a JSONObject.
func Parse(str string) (JSONObject, error) {
	var obj JSONObject
	err := gojson.Unmarshal([]byte(str), &obj)
	return obj, err
}

// Decode unmarshals data into v, rejecting unknown fields.
func Decode(data []byte, v any) error {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("json: decode: %w", err)
	}
	return nil
}

func Encode(v any) ([]byte, error) {
	return gojson.Marshal(v)
}

func EncodeIndent(v any) ([]byte, error) {
	return gojson.MarshalIndent(v, "", "  ")
}
