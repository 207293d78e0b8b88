package airforce

import (
	"context"
	"iter"
	"sync"

	"github.com/alphadose/haxmap"
	"github.com/casualjim/hangar/api"
	"github.com/casualjim/hangar/pkg/slogx"
	"github.com/casualjim/hangar/provider"
	"github.com/casualjim/hangar/provider/models"
	"github.com/fogfish/opts"
)

var modelCache = haxmap.New[string, api.Model]()

func Default(options ...opts.Option[Provider]) api.Model {
	return Model(DefaultModel, options...)
}

func GPT4o(options ...opts.Option[Provider]) api.Model {
	return Model("gpt-4o", options...)
}

func Flux(options ...opts.Option[Provider]) api.Model {
	return Model("flux", options...)
}

func DallE3(options ...opts.Option[Provider]) api.Model {
	return Model("dall-e-3", options...)
}

// Model returns the cached model for name. The provider is built on first use with
// the options of the first call for that name.
func Model(name string, options ...opts.Option[Provider]) api.Model {
	m, _ := modelCache.GetOrCompute(name, func() api.Model {
		_, family := Resolve(name)
		return &model{
			name:    name,
			family:  family,
			options: options,
		}
	})
	return m
}

var _ api.Model = (*model)(nil)

type model struct {
	name    string
	family  provider.Family
	options []opts.Option[Provider]

	prov     provider.Provider
	provOnce sync.Once
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Family() provider.Family {
	return m.family
}

func (m *model) Provider() provider.Provider {
	m.provOnce.Do(func() {
		p, err := New(m.options...)
		if err != nil {
			m.prov = failedProvider{err: err}
			return
		}
		m.prov = p
	})
	return m.prov
}

// failedProvider reports a construction error on every call.
type failedProvider struct {
	err error
}

func (f failedProvider) Name() string {
	return providerName
}

func (f failedProvider) Generate(context.Context, provider.CompletionParams) iter.Seq2[provider.Fragment, error] {
	return func(yield func(provider.Fragment, error) bool) {
		yield(nil, provider.Wrap(f.err))
	}
}

// boundModel shares an already constructed provider.
type boundModel struct {
	name   string
	family provider.Family
	prov   *Provider
}

func (b *boundModel) Name() string                { return b.name }
func (b *boundModel) Family() provider.Family     { return b.family }
func (b *boundModel) Provider() provider.Provider { return b.prov }

// Register adds every Airforce model and alias to the models registry, all served by
// one provider built from options. Existing entries with the same names are replaced.
func Register(options ...opts.Option[Provider]) error {
	p, err := New(options...)
	if err != nil {
		return err
	}

	names := Models()
	for _, a := range Aliases() {
		names = append(names, a.Name)
	}
	for _, name := range names {
		_, family := Resolve(name)
		models.Add(&boundModel{name: name, family: family, prov: p})
	}

	for _, s := range ShadowedAliases() {
		p.logger.Debug("alias declared more than once",
			slogx.Model(s.Name),
			"discarded", s.Discarded,
			"kept", s.Kept,
		)
	}
	return nil
}
