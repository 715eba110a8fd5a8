package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/gestion-comercial/internal/application/documents"
)

var _ documents.SubmitGuard = (*SubmitGuard)(nil)

const submitKeyPrefix = "drafts:submitting:"

// releaseScript borra la marca solo si sigue siendo la nuestra.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// SubmitGuard marca de envío en curso con SET NX y vencimiento. Si el proceso cae
// antes de liberar, la marca vence sola tras ttl.
type SubmitGuard struct {
	client *redis.Client
	ttl    time.Duration
	script *redis.Script

	mu     sync.Mutex
	tokens map[string]string
}

// NewSubmitGuard construye el guard.
func NewSubmitGuard(client *redis.Client, ttl time.Duration) *SubmitGuard {
	return &SubmitGuard{
		client: client,
		ttl:    ttl,
		script: redis.NewScript(releaseScript),
		tokens: make(map[string]string),
	}
}

// Acquire marca el borrador; false si otro envío ya lo marcó.
func (g *SubmitGuard) Acquire(ctx context.Context, draftID string) (bool, error) {
	if g.ttl <= 0 {
		return false, errors.New("cache: submit lock ttl must be positive")
	}
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, submitKeyPrefix+draftID, token, g.ttl).Result()
	if err != nil || !ok {
		return false, err
	}
	g.mu.Lock()
	g.tokens[draftID] = token
	g.mu.Unlock()
	return true, nil
}

// Release limpia la marca tomada por este proceso.
func (g *SubmitGuard) Release(ctx context.Context, draftID string) error {
	g.mu.Lock()
	token, ok := g.tokens[draftID]
	delete(g.tokens, draftID)
	g.mu.Unlock()
	if !ok {
		return nil
	}
	return g.script.Run(ctx, g.client, []string{submitKeyPrefix + draftID}, token).Err()
}
