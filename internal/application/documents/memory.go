package documents

import (
	"context"
	"sync"

	"github.com/jhoicas/gestion-comercial/internal/domain"
)

var (
	_ DraftStore  = (*MemoryDraftStore)(nil)
	_ SubmitGuard = (*MemorySubmitGuard)(nil)
)

// MemoryDraftStore borradores en memoria del proceso (una sola instancia de la API).
type MemoryDraftStore struct {
	mu     sync.RWMutex
	drafts map[string]StoredDraft
}

// NewMemoryDraftStore crea el almacén vacío.
func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: make(map[string]StoredDraft)}
}

// Save guarda o reemplaza el borrador.
func (s *MemoryDraftStore) Save(_ context.Context, d *StoredDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[d.ID] = *d
	return nil
}

// Get devuelve una copia del borrador.
func (s *MemoryDraftStore) Get(_ context.Context, id string) (*StoredDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

// Delete elimina el borrador; no falla si no existe.
func (s *MemoryDraftStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}

// MemorySubmitGuard marcas de envío en curso en memoria.
type MemorySubmitGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewMemorySubmitGuard crea el guard vacío.
func NewMemorySubmitGuard() *MemorySubmitGuard {
	return &MemorySubmitGuard{inFlight: make(map[string]struct{})}
}

// Acquire marca el borrador como en envío; false si ya lo estaba.
func (g *MemorySubmitGuard) Acquire(_ context.Context, draftID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[draftID]; busy {
		return false, nil
	}
	g.inFlight[draftID] = struct{}{}
	return true, nil
}

// Release limpia la marca.
func (g *MemorySubmitGuard) Release(_ context.Context, draftID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, draftID)
	return nil
}
