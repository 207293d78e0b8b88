package airforce

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/casualjim/hangar/messages"
	"github.com/casualjim/hangar/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func setupImageServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, func() []*http.Request) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []*http.Request
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Clone(context.Background()))
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server, func() []*http.Request {
		mu.Lock()
		defer mu.Unlock()
		return slices.Clone(seen)
	}
}

func servePNG(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(pngHeader)
}

func TestGenerateImage_Success(t *testing.T) {
	server, seen := setupImageServer(t, servePNG)

	p := newTestProvider(t, server.URL)
	params := textParams("flux", messages.User("first prompt"), messages.User("a red fox in snow"))
	frags, err := collect(p.Generate(context.Background(), params))
	require.NoError(t, err)
	require.Len(t, frags, 1)

	img, ok := frags[0].(provider.ImageResult)
	require.True(t, ok, "expected ImageResult, got %T", frags[0])
	assert.Equal(t, "a red fox in snow", img.Prompt)
	assert.Equal(t, "flux", img.Model)
	assert.Equal(t, "image/png", img.ContentType)
	assert.False(t, img.Timestamp.IsZero())

	require.Len(t, seen(), 1)
	req := seen()[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/imagine2", req.URL.Path)

	u, err := url.Parse(img.URL)
	require.NoError(t, err)
	assert.Equal(t, "/imagine2", u.Path)
	assert.Equal(t, "a red fox in snow", u.Query().Get("prompt"))
}

func TestGenerateImage_QueryParameters(t *testing.T) {
	server, seen := setupImageServer(t, servePNG)

	p := newTestProvider(t, server.URL)
	seed := 42
	params := textParams("dalle-3", messages.User("a lighthouse"))
	params.Options = &provider.Options{Size: "16:9", Seed: &seed}

	_, err := collect(p.Generate(context.Background(), params))
	require.NoError(t, err)

	require.Len(t, seen(), 1)
	q := seen()[0].URL.Query()
	assert.Equal(t, "a lighthouse", q.Get("prompt"))
	assert.Equal(t, "16:9", q.Get("size"))
	assert.Equal(t, "42", q.Get("seed"))
	assert.Equal(t, "dall-e-3", q.Get("model"))
}

func TestGenerateImage_OmitsAbsentSeed(t *testing.T) {
	server, seen := setupImageServer(t, servePNG)

	p := newTestProvider(t, server.URL)
	_, err := collect(p.Generate(context.Background(), textParams("flux-3d", messages.User("cube"))))
	require.NoError(t, err)

	q := seen()[0].URL.Query()
	assert.False(t, q.Has("seed"))
	assert.Equal(t, provider.DefaultSize, q.Get("size"))
	assert.Equal(t, "flux-3d", q.Get("model"))
}

func TestGenerateImage_EmptyConversation(t *testing.T) {
	server, seen := setupImageServer(t, servePNG)

	p := newTestProvider(t, server.URL)
	frags, err := collect(p.Generate(context.Background(), textParams("flux")))
	require.NoError(t, err)
	require.Len(t, frags, 1)
	assert.Equal(t, "", frags[0].(provider.ImageResult).Prompt)

	require.Len(t, seen(), 1)
	q := seen()[0].URL.Query()
	assert.True(t, q.Has("prompt"))
	assert.Equal(t, "", q.Get("prompt"))
}

func TestGenerateImage_ErrorBody(t *testing.T) {
	server, _ := setupImageServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "quota exceeded")
	})

	p := newTestProvider(t, server.URL)
	frags, err := collect(p.Generate(context.Background(), textParams("flux", messages.User("cat"))))
	require.Error(t, err)
	assert.Empty(t, frags)

	perr, ok := provider.AsError(err)
	require.True(t, ok)
	assert.Equal(t, provider.KindUpstreamHTTP, perr.Kind)
	assert.Equal(t, "Image generation failed", perr.Message)
	assert.Equal(t, http.StatusOK, perr.Status)
	assert.Equal(t, "quota exceeded", perr.Detail)
}

func TestGenerateImage_ErrorBodyInvalidUTF8(t *testing.T) {
	server, _ := setupImageServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{\"error\":\"bad\xff\xfe input\"}"))
	})

	p := newTestProvider(t, server.URL)
	_, err := collect(p.Generate(context.Background(), textParams("flux", messages.User("cat"))))
	require.Error(t, err)

	perr, ok := provider.AsError(err)
	require.True(t, ok)
	assert.Equal(t, `{"error":"bad input"}`, perr.Detail)
}

func TestGenerateImage_NonSuccessStatus(t *testing.T) {
	server, _ := setupImageServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	p := newTestProvider(t, server.URL)
	frags, err := collect(p.Generate(context.Background(), textParams("flux", messages.User("cat"))))
	require.Error(t, err)
	assert.Empty(t, frags)

	perr, ok := provider.AsError(err)
	require.True(t, ok)
	assert.Equal(t, provider.KindUpstreamHTTP, perr.Kind)
	assert.Equal(t, "HTTP 503", perr.Message)
	assert.Equal(t, http.StatusServiceUnavailable, perr.Status)
	assert.Equal(t, "Service Unavailable", perr.Detail)
}

func TestGenerateImage_FollowsRedirects(t *testing.T) {
	var server *httptest.Server
	server, _ = setupImageServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/imagine2" {
			http.Redirect(w, r, server.URL+"/cdn/fox.jpg", http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	})

	p := newTestProvider(t, server.URL)
	frags, err := collect(p.Generate(context.Background(), textParams("flux-realism", messages.User("fox"))))
	require.NoError(t, err)
	require.Len(t, frags, 1)

	img := frags[0].(provider.ImageResult)
	assert.Equal(t, server.URL+"/cdn/fox.jpg", img.URL)
	assert.Equal(t, "image/jpeg", img.ContentType)
	assert.Equal(t, "fox", img.Prompt)
}

func TestGenerateImage_ContentTypeParameters(t *testing.T) {
	server, _ := setupImageServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/webp; q=0.9")
		_, _ = w.Write([]byte("RIFF"))
	})

	p := newTestProvider(t, server.URL)
	frags, err := collect(p.Generate(context.Background(), textParams("any-dark", messages.User("night"))))
	require.NoError(t, err)
	require.Len(t, frags, 1)
	assert.Equal(t, "image/webp", frags[0].(provider.ImageResult).ContentType)
}

func TestGenerateImage_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := server.URL
	server.Close()

	p := newTestProvider(t, base)
	_, err := collect(p.Generate(context.Background(), textParams("flux", messages.User("cat"))))
	require.Error(t, err)

	perr, ok := provider.AsError(err)
	require.True(t, ok)
	assert.Equal(t, provider.KindTransport, perr.Kind)
	assert.Equal(t, "Unexpected error", perr.Message)
	assert.Equal(t, http.StatusInternalServerError, perr.Status)
	assert.NotEmpty(t, perr.Detail)
}

func TestGenerateImage_CanceledContext(t *testing.T) {
	server, seen := setupImageServer(t, servePNG)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestProvider(t, server.URL)
	_, err := collect(p.Generate(ctx, textParams("flux", messages.User("cat"))))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, seen())
}

type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, errors.New("connection reset") }
func (failingBody) Close() error             { return nil }

func TestInspectImageResponse(t *testing.T) {
	reqURL, _ := url.Parse("https://api.airforce/imagine2?prompt=x")
	req := request{model: "flux"}

	t.Run("image", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"image/png"}},
			Body:       http.NoBody,
			Request:    &http.Request{URL: reqURL},
		}
		outcome := inspectImageResponse(resp, req, "x")
		require.NotNil(t, outcome.image)
		assert.Nil(t, outcome.failure)
		assert.Equal(t, reqURL.String(), outcome.image.URL)
	})

	t.Run("missing content type", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader("nope")),
			Request:    &http.Request{URL: reqURL},
		}
		outcome := inspectImageResponse(resp, req, "x")
		assert.Nil(t, outcome.image)
		require.NotNil(t, outcome.failure)
		assert.Equal(t, "nope", outcome.failure.Detail)
	})

	t.Run("unreadable body", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"text/html"}},
			Body:       failingBody{},
			Request:    &http.Request{URL: reqURL},
		}
		outcome := inspectImageResponse(resp, req, "x")
		assert.Nil(t, outcome.image)
		require.NotNil(t, outcome.failure)
		assert.Equal(t, provider.KindDecode, outcome.failure.Kind)
		assert.Equal(t, "Decoding error", outcome.failure.Message)
		assert.Equal(t, http.StatusInternalServerError, outcome.failure.Status)
		assert.Equal(t, "connection reset", outcome.failure.Detail)
	})
}

func TestReasonPhrase(t *testing.T) {
	assert.Equal(t, "Slow Down", reasonPhrase(&http.Response{StatusCode: 429, Status: "429 Slow Down"}))
	assert.Equal(t, "Too Many Requests", reasonPhrase(&http.Response{StatusCode: 429, Status: "429"}))
	assert.Equal(t, "Too Many Requests", reasonPhrase(&http.Response{StatusCode: 429}))
}
