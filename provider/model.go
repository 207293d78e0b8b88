package provider

import (
	"context"
	"iter"

	"github.com/casualjim/hangar/messages"
	"github.com/google/uuid"
)

// Provider is implemented by every upstream adapter. Implementations must be safe for
// concurrent use; each Generate call is an independent network interaction.
type Provider interface {
	Name() string

	// Generate resolves the requested model and yields fragments in arrival order.
	// When an error is yielded it is always the last element of the sequence.
	Generate(ctx context.Context, params CompletionParams) iter.Seq2[Fragment, error]
}

// CompletionParams encapsulates a single normalized request.
type CompletionParams struct {
	// RunID correlates the fragments of one request. A new UUIDv7 is assigned when zero.
	RunID uuid.UUID

	// Model is the requested model name or alias, resolved by the provider.
	Model string

	// Messages is the conversation, oldest first.
	Messages messages.Conversation

	// Options holds the generation settings. Nil means DefaultOptions(); see ResolvedOptions
	// for how unset fields of a partial value are filled.
	Options *Options

	// Prevents unkeyed literals
	_ struct{}
}

// ResolvedOptions returns the options to use for this request. A non-positive MaxTokens
// or TopP and an empty Size take their defaults. A zero Temperature is kept.
func (p CompletionParams) ResolvedOptions() Options {
	if p.Options == nil {
		return DefaultOptions()
	}
	o := *p.Options
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.TopP <= 0 {
		o.TopP = DefaultTopP
	}
	if o.Size == "" {
		o.Size = DefaultSize
	}
	return o
}

// Family is the kind of output a model produces.
type Family string

const (
	FamilyText  Family = "text"
	FamilyImage Family = "image"
)
