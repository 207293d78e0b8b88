package hangar

import (
	"context"

	"github.com/casualjim/hangar/messages"
	"github.com/casualjim/hangar/provider"
	"github.com/fogfish/opts"
)

// Hook receives the output of a generation as it arrives.
type Hook interface {
	// OnFragment is called for every fragment in order. Returning false stops the
	// generation and releases the connection.
	OnFragment(context.Context, provider.Fragment) bool
	OnError(context.Context, error)
	// OnClose is called once when the generation ends, however it ended.
	OnClose(context.Context)
}

// Run drives a generation into hook.
func Run(ctx context.Context, hook Hook, model string, conversation messages.Conversation, options ...opts.Option[provider.Options]) {
	defer hook.OnClose(ctx)

	for frag, err := range Generate(ctx, model, conversation, options...) {
		if err != nil {
			hook.OnError(ctx, err)
			return
		}
		if !hook.OnFragment(ctx, frag) {
			return
		}
	}
}

// HookFuncs adapts plain functions to Hook. Nil fields are no-ops.
type HookFuncs struct {
	Fragment func(context.Context, provider.Fragment) bool
	Error    func(context.Context, error)
	Close    func(context.Context)
}

func (h HookFuncs) OnFragment(ctx context.Context, frag provider.Fragment) bool {
	if h.Fragment == nil {
		return true
	}
	return h.Fragment(ctx, frag)
}

func (h HookFuncs) OnError(ctx context.Context, err error) {
	if h.Error != nil {
		h.Error(ctx, err)
	}
}

func (h HookFuncs) OnClose(ctx context.Context) {
	if h.Close != nil {
		h.Close(ctx)
	}
}
