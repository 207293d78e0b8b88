package jsonx

import (
	"fmt"
	"net/url"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// ToQuery converts a Go value into query-string parameters.
// The value is marshaled to a JSON object first, so struct tags decide the parameter
// names. Null members are omitted, strings are used verbatim and any other scalar
// uses its JSON text. Nested objects and arrays are rejected.
//
// Parameters:
//   - val: a struct or map that marshals to a JSON object.
//
// Returns:
//   - url.Values: the encoded parameters.
//   - error: when val does not marshal to a flat JSON object.
func ToQuery(val any) (url.Values, error) {
	b, err := json.Marshal(val)
	if err != nil {
		return nil, err
	}

	obj := gjson.ParseBytes(b)
	if !obj.IsObject() {
		return nil, fmt.Errorf("query value must marshal to a json object, got %s", obj.Type)
	}

	result := url.Values{}
	obj.ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.Null:
		case gjson.String:
			result.Set(key.String(), value.String())
		case gjson.JSON:
			err = fmt.Errorf("query parameter %q must be a scalar", key.String())
			return false
		default:
			result.Set(key.String(), value.Raw)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
