/*
Package hangar is the entry point for chat and image generation against the models in
the provider/models registry.

The Airforce catalogue is registered on first use when nothing else was registered.
To point it somewhere else, register it explicitly before the first call:

	if err := airforce.Register(airforce.WithProxy(os.Getenv("AIRFORCE_PROXY"))); err != nil {
		return err
	}

# Streaming

Generate returns a lazy sequence. Text models yield provider.TextDelta values as they
arrive; image models yield a single provider.ImageResult. A failure is always the last
element and is a *provider.Error.

	conv := messages.Conversation{messages.User("Write a haiku about hangars")}
	for frag, err := range hangar.Generate(ctx, "llama-3-70b", conv, provider.Temperature(0.7)) {
		if err != nil {
			return err
		}
		fmt.Print(frag.(provider.TextDelta).Content)
	}

Collect drains a sequence into a Result. Run feeds the same sequence into a Hook.

# Unknown models

Names missing from the registry are sent to the default provider unchanged, so new
upstream models can be used before they are listed.
*/
package hangar
