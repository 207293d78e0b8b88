// Package messages holds the normalized conversation shape the aggregator hands to
// a provider: an ordered list of role/content pairs.
//
// Providers decide how much of a message they forward. Airforce, for example,
// only forwards Content and re-tags every entry as a user message.
//
// Example usage:
//
//	conv := messages.Conversation{
//	    messages.System("You are a helpful assistant"),
//	    messages.User("Draw a lighthouse at dusk"),
//	}
//
//	if last, ok := conv.Last(); ok {
//	    fmt.Println(last.Content)
//	}
package messages
