package airforce

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/casualjim/hangar/messages"
	"github.com/casualjim/hangar/pkg/slogx"
	"github.com/casualjim/hangar/pkg/uuidx"
	"github.com/casualjim/hangar/provider"
	"github.com/fogfish/opts"
	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the public Airforce API.
	DefaultBaseURL = "https://api.airforce"

	providerName = "airforce"
	textPath     = "/chat/completions"
	imagePath    = "/imagine2"
)

var _ provider.Provider = (*Provider)(nil)

// Provider talks to the Airforce chat completion and image generation endpoints.
// It is safe for concurrent use; its configuration is fixed after New.
type Provider struct {
	baseURL string
	proxy   string
	client  *http.Client
	headers http.Header
	logger  *slog.Logger
}

var (
	// WithBaseURL points the provider at a different host, e.g. a mirror or a test server.
	WithBaseURL = opts.ForName[Provider, string]("baseURL")
	// WithProxy routes both endpoints through a forward proxy.
	WithProxy = opts.ForName[Provider, string]("proxy")
	// WithHTTPClient replaces the HTTP client. A proxy, when set, is applied to a copy of it.
	WithHTTPClient = opts.ForName[Provider, *http.Client]("client")
	// WithLogger sets the logger, slog.Default() when unset.
	WithLogger = opts.ForName[Provider, *slog.Logger]("logger")
)

// WithHeader sets an extra header on every request, replacing a default of the same name.
func WithHeader(key, value string) opts.Option[Provider] {
	return opts.Type[Provider](func(p *Provider) error {
		p.headers.Set(key, value)
		return nil
	})
}

// New builds a provider from options. It fails on an empty base URL or an unusable proxy.
func New(options ...opts.Option[Provider]) (*Provider, error) {
	p := &Provider{
		baseURL: DefaultBaseURL,
		headers: defaultHeaders(),
	}
	if err := opts.Apply(p, options); err != nil {
		return nil, err
	}

	p.baseURL = strings.TrimRight(p.baseURL, "/")
	if p.baseURL == "" {
		return nil, fmt.Errorf("base url must not be empty")
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.logger = p.logger.With(slogx.LoggerName(providerName))

	if err := p.configureClient(); err != nil {
		return nil, err
	}
	return p, nil
}

// configureClient installs the proxy without mutating a caller supplied client.
// No client timeout is set: streams are bounded by the caller's context.
func (p *Provider) configureClient() error {
	if p.client == nil {
		p.client = &http.Client{}
	}
	if p.proxy == "" {
		return nil
	}

	proxyURL, err := url.Parse(p.proxy)
	if err != nil {
		return fmt.Errorf("invalid proxy url %q: %w", p.proxy, err)
	}
	if proxyURL.Scheme == "" || proxyURL.Host == "" {
		return fmt.Errorf("invalid proxy url %q: scheme and host are required", p.proxy)
	}

	var transport *http.Transport
	switch t := p.client.Transport.(type) {
	case nil:
		transport = http.DefaultTransport.(*http.Transport).Clone()
	case *http.Transport:
		transport = t.Clone()
	default:
		return fmt.Errorf("proxy requires an *http.Transport, got %T", p.client.Transport)
	}
	transport.Proxy = http.ProxyURL(proxyURL)

	client := *p.client
	client.Transport = transport
	p.client = &client
	return nil
}

func (p *Provider) Name() string {
	return providerName
}

// Capabilities describes what the upstream supports.
type Capabilities struct {
	Streaming      bool
	SystemMessage  bool
	MessageHistory bool
	Images         bool
}

func (p *Provider) Capabilities() Capabilities {
	return Capabilities{
		Streaming:      true,
		SystemMessage:  true,
		MessageHistory: true,
		Images:         true,
	}
}

// request is a resolved call: the model is canonical and the options are final.
type request struct {
	runID    uuid.UUID
	model    string
	messages messages.Conversation
	options  provider.Options
}

// Generate resolves the model and streams text deltas for text models or a single
// image result for image models. Breaking out of the range loop closes the connection.
func (p *Provider) Generate(ctx context.Context, params provider.CompletionParams) iter.Seq2[provider.Fragment, error] {
	model, family := Resolve(params.Model)

	req := request{
		runID:    uuidx.OrNew(params.RunID),
		model:    model,
		messages: params.Messages,
		options:  params.ResolvedOptions(),
	}

	if family == provider.FamilyImage {
		return p.generateImage(ctx, req)
	}
	return p.streamText(ctx, req)
}

func (p *Provider) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("construct request: %w", err)
	}
	req.Header = p.headers.Clone()
	return req, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
