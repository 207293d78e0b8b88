package airforce

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"time"

	"github.com/casualjim/hangar/messages"
	"github.com/casualjim/hangar/pkg/slogx"
	"github.com/casualjim/hangar/provider"
	"github.com/go-openapi/strfmt"
	"github.com/goccy/go-json"
)

const unexpectedDetail = "An unexpected error occurred"

var errInvalidUTF8 = errors.New("stream line is not valid utf-8")

type chatMessage struct {
	Role    messages.Role `json:"role"`
	Content string        `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	Stream      bool          `json:"stream"`
}

// newChatRequest flattens the conversation: the upstream receives every message with
// the user role, in order.
func newChatRequest(req request) chatRequest {
	msgs := make([]chatMessage, len(req.messages))
	for i, m := range req.messages {
		msgs[i] = chatMessage{Role: messages.RoleUser, Content: m.Content}
	}
	return chatRequest{
		Messages:    msgs,
		Model:       req.model,
		MaxTokens:   req.options.MaxTokens,
		Temperature: req.options.Temperature,
		TopP:        req.options.TopP,
		Stream:      true,
	}
}

func transportError(err error) *provider.Error {
	return provider.NewError(provider.KindTransport, err.Error(), http.StatusInternalServerError, unexpectedDetail).WithCause(err)
}

// streamText posts the chat request and yields one TextDelta per content chunk.
func (p *Provider) streamText(ctx context.Context, req request) iter.Seq2[provider.Fragment, error] {
	return func(yield func(provider.Fragment, error) bool) {
		log := p.logger.With(slogx.Model(req.model), slogx.Stringer("run_id", req.runID))

		body, err := json.Marshal(newChatRequest(req))
		if err != nil {
			yield(nil, transportError(fmt.Errorf("marshal chat request: %w", err)))
			return
		}

		httpReq, err := p.newRequest(ctx, http.MethodPost, p.baseURL+textPath, bytes.NewReader(body))
		if err != nil {
			yield(nil, transportError(err))
			return
		}

		resp, err := p.client.Do(httpReq)
		if err != nil {
			yield(nil, transportError(err))
			return
		}
		defer resp.Body.Close()

		if !isSuccess(resp.StatusCode) {
			log.DebugContext(ctx, "chat completion rejected", slogx.Status(resp.StatusCode))
			yield(nil, provider.NewError(
				provider.KindUpstreamHTTP,
				fmt.Sprintf("HTTP %d", resp.StatusCode),
				resp.StatusCode,
				unexpectedDetail,
			))
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		for scanner.Scan() {
			kind, value := decodeLine(scanner.Bytes())
			switch kind {
			case lineDone:
				return
			case lineInvalid:
				yield(nil, transportError(errInvalidUTF8))
				return
			case lineMalformed:
				log.DebugContext(ctx, "skipping malformed chunk", slogx.Truncated("chunk", value, 256))
			case lineLimit:
				yield(nil, provider.NewError(
					provider.KindApplicationLimit,
					"Message too long",
					http.StatusBadRequest,
					"Please try a shorter message.",
				))
				return
			case lineContent:
				delta := provider.TextDelta{
					RunID:     req.runID,
					Model:     req.model,
					Content:   value,
					Timestamp: strfmt.DateTime(time.Now()),
				}
				if !yield(delta, nil) {
					return
				}
			}
		}

		if err := scanner.Err(); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
			}
			yield(nil, transportError(err))
		}
	}
}
