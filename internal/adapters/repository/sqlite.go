package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agrofair/portal/internal/domain/model"
	"github.com/agrofair/portal/pkg/metrics"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

const schema = `
CREATE TABLE IF NOT EXISTS exhibitors (
  id              TEXT PRIMARY KEY,
  name            TEXT NOT NULL,
  category        TEXT NOT NULL,
  products        TEXT NOT NULL DEFAULT '',
  city            TEXT NOT NULL,
  business_volume REAL NOT NULL CHECK (business_volume >= 0),
  visitors        INTEGER NOT NULL CHECK (visitors >= 0),
  created_at      INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS gallery_photos (
  id       TEXT PRIMARY KEY,
  url      TEXT NOT NULL,
  title    TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  date     TEXT NOT NULL
);`

// SQLiteStore persists records in a SQLite database file.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (and if necessary initializes) the store at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// ListExhibitors returns all exhibitor records in insertion order.
func (s *SQLiteStore) ListExhibitors(ctx context.Context) ([]model.Exhibitor, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, category, products, city, business_volume, visitors
		 FROM exhibitors ORDER BY created_at, id`)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("list exhibitors: %w", err)
	}
	defer rows.Close()

	var out []model.Exhibitor
	for rows.Next() {
		var ex model.Exhibitor
		var category string
		if err := rows.Scan(&ex.ID, &ex.Name, &category, &ex.Products, &ex.City, &ex.BusinessVolume, &ex.Visitors); err != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("scan exhibitor: %w", err)
		}
		ex.Category = model.Category(category)
		out = append(out, ex)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("iterate exhibitors: %w", err)
	}
	return out, nil
}

// CreateExhibitor inserts ex with a freshly assigned UUID.
func (s *SQLiteStore) CreateExhibitor(ctx context.Context, ex model.Exhibitor) (model.Exhibitor, error) {
	if err := validateExhibitor(ex); err != nil {
		return model.Exhibitor{}, err
	}
	ex.ID = uuid.NewString()
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO exhibitors (id, name, category, products, city, business_volume, visitors, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ex.ID, ex.Name, string(ex.Category), ex.Products, ex.City, ex.BusinessVolume, ex.Visitors,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		metrics.RecordStoreError()
		return model.Exhibitor{}, fmt.Errorf("insert exhibitor: %w", err)
	}
	return ex, nil
}

// UpdateExhibitor replaces the stored record with ex.
func (s *SQLiteStore) UpdateExhibitor(ctx context.Context, ex model.Exhibitor) (model.Exhibitor, error) {
	if strings.TrimSpace(ex.ID) == "" {
		return model.Exhibitor{}, ErrInvalidRecord
	}
	if err := validateExhibitor(ex); err != nil {
		return model.Exhibitor{}, err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE exhibitors
		 SET name = ?, category = ?, products = ?, city = ?, business_volume = ?, visitors = ?
		 WHERE id = ?`,
		ex.Name, string(ex.Category), ex.Products, ex.City, ex.BusinessVolume, ex.Visitors, ex.ID,
	)
	if err != nil {
		metrics.RecordStoreError()
		return model.Exhibitor{}, fmt.Errorf("update exhibitor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		metrics.RecordStoreError()
		return model.Exhibitor{}, fmt.Errorf("update exhibitor: %w", err)
	}
	if affected == 0 {
		return model.Exhibitor{}, ErrNotFound
	}
	return ex, nil
}

// DeleteExhibitor removes the record with id.
func (s *SQLiteStore) DeleteExhibitor(ctx context.Context, id string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM exhibitors WHERE id = ?`, id)
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("delete exhibitor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("delete exhibitor: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPhotos returns gallery photos newest first.
func (s *SQLiteStore) ListPhotos(ctx context.Context) ([]model.GalleryPhoto, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, url, title, category, date FROM gallery_photos ORDER BY date DESC, id`)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	var out []model.GalleryPhoto
	for rows.Next() {
		var photo model.GalleryPhoto
		if err := rows.Scan(&photo.ID, &photo.URL, &photo.Title, &photo.Category, &photo.Date); err != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		out = append(out, photo)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("iterate photos: %w", err)
	}
	return out, nil
}

// AddPhoto inserts photo with a freshly assigned UUID.
func (s *SQLiteStore) AddPhoto(ctx context.Context, photo model.GalleryPhoto) (model.GalleryPhoto, error) {
	if err := validatePhoto(photo); err != nil {
		return model.GalleryPhoto{}, err
	}
	photo.ID = uuid.NewString()
	if photo.Date == "" {
		photo.Date = time.Now().UTC().Format("2006-01-02")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO gallery_photos (id, url, title, category, date) VALUES (?, ?, ?, ?, ?)`,
		photo.ID, photo.URL, photo.Title, photo.Category, photo.Date,
	)
	if err != nil {
		metrics.RecordStoreError()
		return model.GalleryPhoto{}, fmt.Errorf("insert photo: %w", err)
	}
	return photo, nil
}

// DeletePhoto removes the photo with id.
func (s *SQLiteStore) DeletePhoto(ctx context.Context, id string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM gallery_photos WHERE id = ?`, id)
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("delete photo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("delete photo: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
