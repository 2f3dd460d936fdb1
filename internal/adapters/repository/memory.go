package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agrofair/portal/internal/domain/model"
)

// MemoryStore keeps records in process memory. It backs tests and
// ephemeral runs; state is lost on restart.
type MemoryStore struct {
	mu         sync.RWMutex
	exhibitors []model.Exhibitor
	photos     []model.GalleryPhoto
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

// ListExhibitors returns all exhibitor records in insertion order.
func (s *MemoryStore) ListExhibitors(ctx context.Context) ([]model.Exhibitor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Exhibitor, len(s.exhibitors))
	copy(out, s.exhibitors)
	return out, nil
}

// CreateExhibitor inserts ex with a freshly assigned UUID.
func (s *MemoryStore) CreateExhibitor(ctx context.Context, ex model.Exhibitor) (model.Exhibitor, error) {
	if err := ctx.Err(); err != nil {
		return model.Exhibitor{}, err
	}
	if err := validateExhibitor(ex); err != nil {
		return model.Exhibitor{}, err
	}
	ex.ID = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exhibitors = append(s.exhibitors, ex)
	return ex, nil
}

// UpdateExhibitor replaces the stored record with ex.
func (s *MemoryStore) UpdateExhibitor(ctx context.Context, ex model.Exhibitor) (model.Exhibitor, error) {
	if err := ctx.Err(); err != nil {
		return model.Exhibitor{}, err
	}
	if strings.TrimSpace(ex.ID) == "" {
		return model.Exhibitor{}, ErrInvalidRecord
	}
	if err := validateExhibitor(ex); err != nil {
		return model.Exhibitor{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.exhibitors {
		if s.exhibitors[i].ID == ex.ID {
			s.exhibitors[i] = ex
			return ex, nil
		}
	}
	return model.Exhibitor{}, ErrNotFound
}

// DeleteExhibitor removes the record with id.
func (s *MemoryStore) DeleteExhibitor(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.exhibitors {
		if s.exhibitors[i].ID == id {
			s.exhibitors = append(s.exhibitors[:i], s.exhibitors[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// ListPhotos returns gallery photos newest first.
func (s *MemoryStore) ListPhotos(ctx context.Context) ([]model.GalleryPhoto, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.GalleryPhoto, len(s.photos))
	copy(out, s.photos)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out, nil
}

// AddPhoto inserts photo with a freshly assigned UUID.
func (s *MemoryStore) AddPhoto(ctx context.Context, photo model.GalleryPhoto) (model.GalleryPhoto, error) {
	if err := ctx.Err(); err != nil {
		return model.GalleryPhoto{}, err
	}
	if err := validatePhoto(photo); err != nil {
		return model.GalleryPhoto{}, err
	}
	photo.ID = uuid.NewString()
	if photo.Date == "" {
		photo.Date = time.Now().UTC().Format("2006-01-02")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos = append(s.photos, photo)
	return photo, nil
}

// DeletePhoto removes the photo with id.
func (s *MemoryStore) DeletePhoto(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.photos {
		if s.photos[i].ID == id {
			s.photos = append(s.photos[:i], s.photos[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
