package chat

import "context"

// Responder produces the bot side of the conversation. The real model
// integration lives outside this subsystem; anything satisfying this
// interface can be plugged in.
type Responder interface {
	Greeting() string
	Reply(ctx context.Context, userMessage string) (string, error)
}

const defaultGreeting = "I'd be happy to get you the information you need, but before I do, do you mind if I ask a few quick questions? That way, I can really understand what's important and make sure I'm helping in the best way possible."

// StaticResponder is the fallback used when no model backend is wired. It
// greets and acknowledges, nothing more.
type StaticResponder struct{}

func (StaticResponder) Greeting() string { return defaultGreeting }

func (StaticResponder) Reply(ctx context.Context, userMessage string) (string, error) {
	return "Thanks for sharing that. Could you tell me a bit more about what you're looking for?", nil
}
