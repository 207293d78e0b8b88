package provider

import (
	"testing"

	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, 4096, o.MaxTokens)
	assert.Equal(t, 1.0, o.Temperature)
	assert.Equal(t, 1.0, o.TopP)
	assert.Equal(t, "1:1", o.Size)
	assert.Nil(t, o.Seed)
}

func TestNewOptions(t *testing.T) {
	o, err := NewOptions(MaxTokens(256), Temperature(0.3), TopP(0.9), Size("16:9"), Seed(42))
	require.NoError(t, err)
	assert.Equal(t, 256, o.MaxTokens)
	assert.Equal(t, 0.3, o.Temperature)
	assert.Equal(t, 0.9, o.TopP)
	assert.Equal(t, "16:9", o.Size)
	require.NotNil(t, o.Seed)
	assert.Equal(t, 42, *o.Seed)
}

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Options
		wantErr string
	}{
		{
			name:  "empty",
			input: "",
			want:  DefaultOptions(),
		},
		{
			name:  "unknown keys ignored",
			input: `{"stream":false,"frequency_penalty":2}`,
			want:  DefaultOptions(),
		},
		{
			name:  "text settings",
			input: `{"max_tokens":100,"temperature":0.5,"top_p":0.25}`,
			want: Options{
				MaxTokens:   100,
				Temperature: 0.5,
				TopP:        0.25,
				Size:        DefaultSize,
			},
		},
		{
			name:  "image settings",
			input: `{"size":"3:2","seed":7}`,
			want: Options{
				MaxTokens:   DefaultMaxTokens,
				Temperature: DefaultTemperature,
				TopP:        DefaultTopP,
				Size:        "3:2",
				Seed:        swag.Int(7),
			},
		},
		{
			name:  "null seed",
			input: `{"seed":null}`,
			want:  DefaultOptions(),
		},
		{name: "invalid json", input: `{"size":`, wantErr: "invalid options json"},
		{name: "not an object", input: `[1,2]`, wantErr: "must be a json object"},
		{name: "wrong max_tokens type", input: `{"max_tokens":"lots"}`, wantErr: "max_tokens must be a number"},
		{name: "wrong size type", input: `{"size":1}`, wantErr: "size must be a string"},
		{name: "wrong seed type", input: `{"seed":"x"}`, wantErr: "seed must be a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOptions([]byte(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionsSchema(t *testing.T) {
	schema := OptionsSchema()
	require.NotNil(t, schema)
	assert.Equal(t, "object", schema.Type)
	require.NotNil(t, schema.Properties)

	for _, key := range []string{"max_tokens", "temperature", "top_p", "size", "seed"} {
		_, ok := schema.Properties.Get(key)
		assert.True(t, ok, "missing property %s", key)
	}
	assert.Empty(t, schema.Required)
}

func TestCompletionParams_ResolvedOptions(t *testing.T) {
	assert.Equal(t, DefaultOptions(), CompletionParams{}.ResolvedOptions())

	custom := Options{MaxTokens: 1, Temperature: 0.3, TopP: 0.4, Size: "3:4", Seed: swag.Int(9)}
	assert.Equal(t, custom, CompletionParams{Options: &custom}.ResolvedOptions())

	partial := Options{Temperature: 0.5}
	assert.Equal(t, Options{
		MaxTokens:   DefaultMaxTokens,
		Temperature: 0.5,
		TopP:        DefaultTopP,
		Size:        DefaultSize,
	}, CompletionParams{Options: &partial}.ResolvedOptions())

	greedy := Options{MaxTokens: 8, TopP: 1}
	assert.Zero(t, CompletionParams{Options: &greedy}.ResolvedOptions().Temperature)
}

func TestFrom(t *testing.T) {
	base := Options{MaxTokens: 10, Temperature: 0.2, TopP: 0.3, Size: "4:3", Seed: swag.Int(7)}

	o, err := NewOptions(From(base), Temperature(0.9))
	require.NoError(t, err)
	assert.Equal(t, 10, o.MaxTokens)
	assert.Equal(t, 0.9, o.Temperature)
	assert.Equal(t, "4:3", o.Size)
	require.NotNil(t, o.Seed)
	assert.Equal(t, 7, *o.Seed)
}
