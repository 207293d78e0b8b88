// Package provider defines the contract between the aggregator and a single upstream
// chat/image provider, along with the values that cross that boundary.
//
// Design decisions:
//   - Pull-based streaming: Generate returns an iter.Seq2 so fragments are produced
//     only as fast as the caller consumes them, and breaking out of the loop releases
//     the underlying connection
//   - Sealed fragments: TextDelta and ImageResult are the only Fragment implementations
//   - Structured errors: every failure surfaces as a *Error carrying an HTTP-ish status
//     and a detail string, delivered as the last element of the sequence
//   - Explicit options: generation settings are a typed struct with documented defaults
//     instead of a loose map
//
// Example usage:
//
//	options, err := provider.NewOptions(provider.MaxTokens(512), provider.Temperature(0.2))
//	if err != nil {
//	    return err
//	}
//
//	params := provider.CompletionParams{
//	    Model:    "llama-3-70b",
//	    Messages: messages.Conversation{messages.User("Hello")},
//	    Options:  &options,
//	}
//
//	for fragment, err := range p.Generate(ctx, params) {
//	    if err != nil {
//	        // the sequence ends after an error
//	        return err
//	    }
//	    switch f := fragment.(type) {
//	    case provider.TextDelta:
//	        fmt.Print(f.Content)
//	    case provider.ImageResult:
//	        fmt.Println(f.URL)
//	    }
//	}
package provider
