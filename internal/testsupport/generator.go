package testsupport

import (
	"context"
	"sync"
)

// StubGenerator is a scripted text generator. Replies are returned in order;
// the last reply repeats once the script runs out.
type StubGenerator struct {
	mu      sync.Mutex
	Replies []string
	Err     error
	// Block, when set, makes Generate wait for the context to end.
	Block   bool
	prompts []string
}

// Generate records prompt and returns the next scripted reply.
func (g *StubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	n := len(g.prompts)
	g.mu.Unlock()

	if g.Block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if g.Err != nil {
		return "", g.Err
	}
	if len(g.Replies) == 0 {
		return "", nil
	}
	idx := n - 1
	if idx >= len(g.Replies) {
		idx = len(g.Replies) - 1
	}
	return g.Replies[idx], nil
}

// Calls returns the number of Generate invocations.
func (g *StubGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}
