package provider

import (
	"fmt"

	"github.com/fogfish/opts"
	"github.com/go-openapi/swag"
	"github.com/invopop/jsonschema"
	"github.com/tidwall/gjson"
)

const (
	DefaultMaxTokens   = 4096
	DefaultTemperature = 1.0
	DefaultTopP        = 1.0
	DefaultSize        = "1:1"
)

// Options are the generation settings the aggregator recognizes. Text models use
// MaxTokens, Temperature and TopP; image models use Size and Seed.
type Options struct {
	MaxTokens   int     `json:"max_tokens" jsonschema:"default=4096,description=Upper bound on generated tokens (text models)"`
	Temperature float64 `json:"temperature" jsonschema:"default=1,description=Sampling temperature (text models)"`
	TopP        float64 `json:"top_p" jsonschema:"default=1,description=Nucleus sampling mass (text models)"`
	Size        string  `json:"size,omitempty" jsonschema:"default=1:1,description=Aspect ratio of the image (image models)"`
	Seed        *int    `json:"seed,omitempty" jsonschema:"description=Deterministic seed (image models)"`
}

// DefaultOptions returns the documented defaults. Seed is unset.
func DefaultOptions() Options {
	return Options{
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
		Size:        DefaultSize,
	}
}

var (
	MaxTokens   = opts.ForName[Options, int]("MaxTokens")
	Temperature = opts.ForName[Options, float64]("Temperature")
	TopP        = opts.ForName[Options, float64]("TopP")
	Size        = opts.ForName[Options, string]("Size")
)

// Seed sets the image seed.
func Seed(seed int) opts.Option[Options] {
	return opts.Type[Options](func(o *Options) error {
		o.Seed = swag.Int(seed)
		return nil
	})
}

// From replaces every field with the values in o. Options applied after it override.
func From(o Options) opts.Option[Options] {
	return opts.Type[Options](func(dst *Options) error {
		*dst = o
		return nil
	})
}

// NewOptions applies the given options on top of DefaultOptions.
func NewOptions(options ...opts.Option[Options]) (Options, error) {
	result := DefaultOptions()
	if err := opts.Apply(&result, options); err != nil {
		return Options{}, err
	}
	return result, nil
}

// ParseOptions reads a loose JSON configuration bag. Recognized keys override the
// defaults, unknown keys are ignored and a recognized key with the wrong type is an
// error. A null seed leaves the seed unset.
func ParseOptions(raw []byte) (Options, error) {
	result := DefaultOptions()
	if len(raw) == 0 {
		return result, nil
	}
	if !gjson.ValidBytes(raw) {
		return Options{}, fmt.Errorf("invalid options json: %s", raw)
	}

	bag := gjson.ParseBytes(raw)
	if !bag.IsObject() {
		return Options{}, fmt.Errorf("options must be a json object, got %s", bag.Type)
	}

	if v := bag.Get("max_tokens"); v.Exists() {
		if v.Type != gjson.Number {
			return Options{}, fmt.Errorf("max_tokens must be a number, got %s", v.Type)
		}
		result.MaxTokens = int(v.Int())
	}
	if v := bag.Get("temperature"); v.Exists() {
		if v.Type != gjson.Number {
			return Options{}, fmt.Errorf("temperature must be a number, got %s", v.Type)
		}
		result.Temperature = v.Float()
	}
	if v := bag.Get("top_p"); v.Exists() {
		if v.Type != gjson.Number {
			return Options{}, fmt.Errorf("top_p must be a number, got %s", v.Type)
		}
		result.TopP = v.Float()
	}
	if v := bag.Get("size"); v.Exists() {
		if v.Type != gjson.String {
			return Options{}, fmt.Errorf("size must be a string, got %s", v.Type)
		}
		result.Size = v.String()
	}
	if v := bag.Get("seed"); v.Exists() {
		switch v.Type {
		case gjson.Null:
			result.Seed = nil
		case gjson.Number:
			result.Seed = swag.Int(int(v.Int()))
		default:
			return Options{}, fmt.Errorf("seed must be a number, got %s", v.Type)
		}
	}

	return result, nil
}

// OptionsSchema describes the configuration bag accepted by ParseOptions.
func OptionsSchema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		DoNotReference:             true,
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
	}
	return reflector.Reflect(&Options{})
}
