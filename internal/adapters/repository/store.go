// Package repository defines the record store interface and errors.
package repository

import (
	"context"
	"strings"

	"github.com/agrofair/portal/internal/domain/model"
)

// Store provides read/write access to exhibitor records and gallery
// photos. Identifiers are assigned by the store on creation and stay
// opaque and stable for the record's lifetime.
type Store interface {
	// ListExhibitors returns all exhibitor records.
	ListExhibitors(ctx context.Context) ([]model.Exhibitor, error)

	// CreateExhibitor inserts a record and returns it with the
	// store-assigned identifier.
	CreateExhibitor(ctx context.Context, ex model.Exhibitor) (model.Exhibitor, error)

	// UpdateExhibitor replaces the record with ex.ID.
	// Returns ErrNotFound if the record is unknown.
	UpdateExhibitor(ctx context.Context, ex model.Exhibitor) (model.Exhibitor, error)

	// DeleteExhibitor removes the record with id.
	// Returns ErrNotFound if the record is unknown.
	DeleteExhibitor(ctx context.Context, id string) error

	// ListPhotos returns gallery photos ordered by date descending.
	ListPhotos(ctx context.Context) ([]model.GalleryPhoto, error)

	// AddPhoto inserts a photo and returns it with the store-assigned
	// identifier.
	AddPhoto(ctx context.Context, photo model.GalleryPhoto) (model.GalleryPhoto, error)

	// DeletePhoto removes the photo with id.
	// Returns ErrNotFound if the photo is unknown.
	DeletePhoto(ctx context.Context, id string) error

	// Close releases store resources.
	Close() error
}

// validateExhibitor enforces the record invariants shared by every
// store implementation.
func validateExhibitor(ex model.Exhibitor) error {
	switch {
	case strings.TrimSpace(ex.Name) == "":
		return ErrInvalidRecord
	case strings.TrimSpace(ex.City) == "":
		return ErrInvalidRecord
	case !ex.Category.Valid():
		return ErrInvalidRecord
	case ex.BusinessVolume < 0:
		return ErrInvalidRecord
	case ex.Visitors < 0:
		return ErrInvalidRecord
	}
	return nil
}

func validatePhoto(photo model.GalleryPhoto) error {
	switch {
	case strings.TrimSpace(photo.URL) == "":
		return ErrInvalidRecord
	case strings.TrimSpace(photo.Title) == "":
		return ErrInvalidRecord
	}
	return nil
}
