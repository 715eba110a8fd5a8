package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/gestion-comercial/internal/application/documents"
	"github.com/jhoicas/gestion-comercial/internal/domain"
)

var _ documents.DraftStore = (*DraftStore)(nil)

const draftKeyPrefix = "drafts:"

// DraftStore borradores serializados en JSON con vencimiento por inactividad.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftStore construye el almacén. ttl <= 0: sin vencimiento.
func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{client: client, ttl: ttl}
}

// Save guarda el borrador y renueva su vencimiento.
func (s *DraftStore) Save(ctx context.Context, d *documents.StoredDraft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("cache: encode draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKeyPrefix+d.ID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache: save draft: %w", err)
	}
	return nil
}

// Get devuelve domain.ErrNotFound si la clave no existe o venció.
func (s *DraftStore) Get(ctx context.Context, id string) (*documents.StoredDraft, error) {
	raw, err := s.client.Get(ctx, draftKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("cache: get draft: %w", err)
	}
	var d documents.StoredDraft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("cache: decode draft %s: %w", id, err)
	}
	return &d, nil
}

// Delete elimina el borrador.
func (s *DraftStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, draftKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("cache: delete draft: %w", err)
	}
	return nil
}
