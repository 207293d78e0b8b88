package airforce

import (
	"context"
	"fmt"
	"io"
	"iter"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/casualjim/hangar/pkg/jsonx"
	"github.com/casualjim/hangar/pkg/slogx"
	"github.com/casualjim/hangar/provider"
	"github.com/go-openapi/strfmt"
)

type imageQuery struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size,omitempty"`
	Seed   *int   `json:"seed"`
	Model  string `json:"model"`
}

func newImageQuery(req request) imageQuery {
	var prompt string
	if last, ok := req.messages.Last(); ok {
		prompt = last.Content
	}
	return imageQuery{
		Prompt: prompt,
		Size:   req.options.Size,
		Seed:   req.options.Seed,
		Model:  req.model,
	}
}

// imageOutcome is either a generated image or the error payload the upstream sent
// in its place. Exactly one field is set.
type imageOutcome struct {
	image   *provider.ImageResult
	failure *provider.Error
}

func unexpectedImageError(err error) *provider.Error {
	return provider.NewError(provider.KindTransport, "Unexpected error", http.StatusInternalServerError, err.Error()).WithCause(err)
}

// generateImage issues the image request and yields at most one ImageResult.
func (p *Provider) generateImage(ctx context.Context, req request) iter.Seq2[provider.Fragment, error] {
	return func(yield func(provider.Fragment, error) bool) {
		log := p.logger.With(slogx.Model(req.model), slogx.Stringer("run_id", req.runID))

		query := newImageQuery(req)
		values, err := jsonx.ToQuery(query)
		if err != nil {
			yield(nil, unexpectedImageError(fmt.Errorf("encode image query: %w", err)))
			return
		}

		httpReq, err := p.newRequest(ctx, http.MethodGet, p.baseURL+imagePath+"?"+values.Encode(), nil)
		if err != nil {
			yield(nil, unexpectedImageError(err))
			return
		}

		resp, err := p.client.Do(httpReq)
		if err != nil {
			yield(nil, unexpectedImageError(err))
			return
		}
		defer resp.Body.Close()

		if !isSuccess(resp.StatusCode) {
			log.DebugContext(ctx, "image generation rejected", slogx.Status(resp.StatusCode))
			yield(nil, provider.NewError(
				provider.KindUpstreamHTTP,
				fmt.Sprintf("HTTP %d", resp.StatusCode),
				resp.StatusCode,
				reasonPhrase(resp),
			))
			return
		}

		outcome := inspectImageResponse(resp, req, query.Prompt)
		if outcome.failure != nil {
			log.DebugContext(ctx, "image generation failed", slogx.Status(outcome.failure.Status))
			yield(nil, outcome.failure)
			return
		}
		yield(*outcome.image, nil)
	}
}

// inspectImageResponse branches on the declared content type of a 2xx response.
// Anything that is not an image is read as text and reported as the failure.
func inspectImageResponse(resp *http.Response, req request, prompt string) imageOutcome {
	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	if strings.HasPrefix(contentType, "image/") {
		return imageOutcome{image: &provider.ImageResult{
			RunID:       req.runID,
			Model:       req.model,
			URL:         resp.Request.URL.String(),
			Prompt:      prompt,
			ContentType: contentType,
			Timestamp:   strfmt.DateTime(time.Now()),
		}}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return imageOutcome{failure: provider.NewError(
			provider.KindDecode,
			"Decoding error",
			http.StatusInternalServerError,
			err.Error(),
		).WithCause(err)}
	}
	return imageOutcome{failure: provider.NewError(
		provider.KindUpstreamHTTP,
		"Image generation failed",
		resp.StatusCode,
		strings.ToValidUTF8(string(body), ""),
	)}
}

// reasonPhrase returns the server's reason text, falling back to the standard one.
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
