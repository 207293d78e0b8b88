package hangar

import (
	"context"
	"iter"
	"log/slog"
	"strings"
	"sync"

	"github.com/casualjim/hangar/api"
	"github.com/casualjim/hangar/messages"
	"github.com/casualjim/hangar/pkg/slogx"
	"github.com/casualjim/hangar/provider"
	"github.com/casualjim/hangar/provider/airforce"
	"github.com/casualjim/hangar/provider/models"
	"github.com/fogfish/opts"
)

var registerDefaults sync.Once

// ensureModels registers the Airforce catalogue with default settings unless the
// registry was populated already.
func ensureModels() {
	registerDefaults.Do(func() {
		if models.Len() > 0 {
			return
		}
		if err := airforce.Register(); err != nil {
			slog.Error("failed to register default models", slogx.Error(err))
		}
	})
}

// lookup finds the registered model for name. Unknown names are served by the
// provider of the default model, which sends them upstream unchanged.
func lookup(name string) api.Model {
	ensureModels()
	if m, ok := models.Get(name); ok {
		return m
	}
	if m, ok := models.Get(airforce.DefaultModel); ok {
		return m
	}
	return airforce.Default()
}

// Generate streams the fragments produced by model for the conversation. The model is
// a registered name or alias; anything else is passed through to the default provider.
// Options that fail to apply end the sequence with that error, wrapped as a *provider.Error.
func Generate(ctx context.Context, model string, conversation messages.Conversation, options ...opts.Option[provider.Options]) iter.Seq2[provider.Fragment, error] {
	o, err := provider.NewOptions(options...)
	if err != nil {
		return func(yield func(provider.Fragment, error) bool) {
			yield(nil, provider.Wrap(err))
		}
	}

	return lookup(model).Provider().Generate(ctx, provider.CompletionParams{
		Model:    model,
		Messages: conversation,
		Options:  &o,
	})
}

// Result is a fully consumed generation.
type Result struct {
	Text   string
	Images []provider.ImageResult
}

// Collect drains seq, joining text deltas and gathering image results. On error the
// partial result is returned along with it.
func Collect(seq iter.Seq2[provider.Fragment, error]) (Result, error) {
	var (
		text   strings.Builder
		result Result
	)
	for frag, err := range seq {
		if err != nil {
			result.Text = text.String()
			return result, err
		}
		switch f := frag.(type) {
		case provider.TextDelta:
			text.WriteString(f.Content)
		case provider.ImageResult:
			result.Images = append(result.Images, f)
		}
	}
	result.Text = text.String()
	return result, nil
}
