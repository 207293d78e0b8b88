/*
Package airforce implements the provider.Provider interface for the Airforce API, which
serves both chat completions and image generation from a single host.

# Model Routing

Every request names a model or an alias. Resolve maps it to the upstream model id and
decides the family:

	name, family := airforce.Resolve("dalle-3") // "dall-e-3", provider.FamilyImage

Unknown names are sent upstream unchanged as text models. The alias table is published
with repeated keys; the last declaration wins and ShadowedAliases reports the rest.

# Text

Text models stream over server-sent events. Each content chunk becomes a
provider.TextDelta. Chunks that are not valid JSON are skipped; the in-band
"message too long" marker ends the stream with a KindApplicationLimit error.

	p, _ := airforce.New()
	for frag, err := range p.Generate(ctx, provider.CompletionParams{
		Model:    "llama-3-70b",
		Messages: messages.Conversation{messages.User("Hello")},
	}) {
		if err != nil {
			return err
		}
		fmt.Print(frag.(provider.TextDelta).Content)
	}

Breaking out of the loop closes the connection.

# Images

Image models issue a single GET. A response with an image content type yields one
provider.ImageResult pointing at the final URL; any other body is read as text and
returned as a KindUpstreamHTTP error.

# Configuration

	p, err := airforce.New(
		airforce.WithBaseURL("http://localhost:8080"),
		airforce.WithProxy("http://proxy.internal:3128"),
		airforce.WithHeader("X-Request-Source", "batch"),
	)

Register adds every model and alias to the provider/models registry.
*/
package airforce
