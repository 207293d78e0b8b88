package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/casualjim/hangar"
	"github.com/casualjim/hangar/messages"
	"github.com/casualjim/hangar/pkg/slogx"
	"github.com/casualjim/hangar/provider"
	"github.com/casualjim/hangar/provider/airforce"
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/fogfish/opts"
	"github.com/goccy/go-json"
	_ "github.com/joho/godotenv/autoload"
	"github.com/k0kubun/pp/v3"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
)

func init() {
	configureLogging(os.Stderr, slog.LevelInfo)
}

func configureLogging(w io.Writer, level slog.Level) {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Stamp}
	logger := zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(logger, &zeroslog.HandlerOptions{Level: level}),
	))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("hangar failed", slogx.Error(err))
		os.Exit(1)
	}
}

type config struct {
	model       string
	system      string
	maxTokens   int
	temperature float64
	topP        float64
	size        string
	seed        int
	options     string
	proxy       string
	baseURL     string
	render      bool
	debug       bool
	listModels  bool
	schema      bool

	set    map[string]bool
	prompt string
}

func parseFlags(args []string) (*config, error) {
	cfg := &config{set: make(map[string]bool)}

	baseURL := os.Getenv("AIRFORCE_BASE_URL")
	if baseURL == "" {
		baseURL = airforce.DefaultBaseURL
	}

	fs := flag.NewFlagSet("hangar", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: hangar [flags] prompt...")
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.model, "model", airforce.DefaultModel, "model name or alias")
	fs.StringVar(&cfg.system, "system", "", "system message sent before the prompt")
	fs.IntVar(&cfg.maxTokens, "max-tokens", provider.DefaultMaxTokens, "maximum tokens to generate")
	fs.Float64Var(&cfg.temperature, "temperature", provider.DefaultTemperature, "sampling temperature")
	fs.Float64Var(&cfg.topP, "top-p", provider.DefaultTopP, "nucleus sampling probability")
	fs.StringVar(&cfg.size, "size", provider.DefaultSize, "image aspect ratio")
	fs.IntVar(&cfg.seed, "seed", 0, "image seed")
	fs.StringVar(&cfg.options, "options", "", "generation options as a JSON object; flags override it")
	fs.StringVar(&cfg.proxy, "proxy", os.Getenv("AIRFORCE_PROXY"), "forward proxy url")
	fs.StringVar(&cfg.baseURL, "base-url", baseURL, "api base url")
	fs.BoolVar(&cfg.render, "render", false, "render the reply as markdown once complete")
	fs.BoolVar(&cfg.debug, "debug", false, "debug logging and fragment dumps")
	fs.BoolVar(&cfg.listModels, "models", false, "list models and aliases")
	fs.BoolVar(&cfg.schema, "schema", false, "print the JSON schema of -options")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		cfg.set[f.Name] = true
	})
	cfg.prompt = strings.TrimSpace(strings.Join(fs.Args(), " "))
	return cfg, nil
}

// generationOptions layers explicitly set flags over the -options bag.
func (c *config) generationOptions() ([]opts.Option[provider.Options], error) {
	base, err := provider.ParseOptions([]byte(c.options))
	if err != nil {
		return nil, fmt.Errorf("invalid -options: %w", err)
	}

	result := []opts.Option[provider.Options]{provider.From(base)}
	if c.set["max-tokens"] {
		result = append(result, provider.MaxTokens(c.maxTokens))
	}
	if c.set["temperature"] {
		result = append(result, provider.Temperature(c.temperature))
	}
	if c.set["top-p"] {
		result = append(result, provider.TopP(c.topP))
	}
	if c.set["size"] {
		result = append(result, provider.Size(c.size))
	}
	if c.set["seed"] {
		result = append(result, provider.Seed(c.seed))
	}
	return result, nil
}

func (c *config) conversation() messages.Conversation {
	var conv messages.Conversation
	if c.system != "" {
		conv = append(conv, messages.System(c.system))
	}
	return append(conv, messages.User(c.prompt))
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}
	if cfg.debug {
		configureLogging(os.Stderr, slog.LevelDebug)
	}

	switch {
	case cfg.schema:
		return printSchema(stdout)
	case cfg.listModels:
		printModels(stdout)
		return nil
	case cfg.prompt == "":
		return errors.New("a prompt is required")
	}

	options, err := cfg.generationOptions()
	if err != nil {
		return err
	}

	providerOptions := []opts.Option[airforce.Provider]{
		airforce.WithBaseURL(cfg.baseURL),
		airforce.WithLogger(slog.Default()),
	}
	if cfg.proxy != "" {
		providerOptions = append(providerOptions, airforce.WithProxy(cfg.proxy))
	}
	if err := airforce.Register(providerOptions...); err != nil {
		return err
	}

	slog.DebugContext(ctx, "generating", slogx.Model(cfg.model), "prompt_chars", len(cfg.prompt))
	return stream(ctx, stdout, cfg, hangar.Generate(ctx, cfg.model, cfg.conversation(), options...))
}

func stream(ctx context.Context, w io.Writer, cfg *config, seq iter.Seq2[provider.Fragment, error]) error {
	var (
		reply    strings.Builder
		streamed bool
	)
	for frag, err := range seq {
		if err != nil {
			if perr, ok := provider.AsError(err); ok {
				slog.DebugContext(ctx, "provider error", slogx.Stringer("kind", perr.Kind), slogx.Status(perr.Status))
			}
			return err
		}
		if cfg.debug {
			pp.Fprintln(os.Stderr, frag)
		}

		switch f := frag.(type) {
		case provider.TextDelta:
			if cfg.render {
				reply.WriteString(f.Content)
				continue
			}
			fmt.Fprint(w, f.Content)
			streamed = true
		case provider.ImageResult:
			fmt.Fprintf(w, "%s %s\n", color.MagentaString("image:"), f.URL)
		}
	}

	if !cfg.render {
		if streamed {
			fmt.Fprintln(w)
		}
		return nil
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return err
	}
	out, err := renderer.Render(reply.String())
	if err != nil {
		return err
	}
	fmt.Fprint(w, out)
	return nil
}

func printSchema(w io.Writer) error {
	b, err := json.MarshalIndent(provider.OptionsSchema(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(b))
	return nil
}

func printModels(w io.Writer) {
	fmt.Fprintln(w, color.CyanString("Text models"))
	for _, m := range airforce.TextModels() {
		fmt.Fprintf(w, "  %s\n", m)
	}
	fmt.Fprintln(w, color.CyanString("Image models"))
	for _, m := range airforce.ImageModels() {
		fmt.Fprintf(w, "  %s\n", m)
	}
	fmt.Fprintln(w, color.CyanString("Aliases"))
	for _, a := range airforce.Aliases() {
		fmt.Fprintf(w, "  %s -> %s\n", a.Name, a.Target)
	}
	if shadowed := airforce.ShadowedAliases(); len(shadowed) > 0 {
		fmt.Fprintln(w, color.YellowString("Aliases declared more than once"))
		for _, s := range shadowed {
			fmt.Fprintf(w, "  %s: %s replaced by %s\n", s.Name, s.Discarded, s.Kept)
		}
	}
}
