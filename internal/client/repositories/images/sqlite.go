package images

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bookexpert/internal/client/models"
	"github.com/dmitrijs2005/bookexpert/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, img *models.SavedImage) error {
	query := `INSERT INTO images (id, image_data, checksum, width, height, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		img.ID, img.Data, img.Checksum, img.Width, img.Height, img.CreatedAt.UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert image: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanImage(s scanner) (*models.SavedImage, error) {
	var (
		img       models.SavedImage
		createdAt int64
	)
	if err := s.Scan(&img.ID, &img.Data, &img.Checksum, &img.Width, &img.Height, &createdAt); err != nil {
		return nil, err
	}
	img.CreatedAt = time.Unix(0, createdAt).UTC()
	return &img, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.SavedImage, error) {
	query := `SELECT id, image_data, checksum, width, height, created_at FROM images
			ORDER BY created_at DESC, rowid DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select images: %w", err)
	}
	defer rows.Close()

	result := []models.SavedImage{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image row: %w", err)
		}
		result = append(result, *img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.SavedImage, error) {
	query := `SELECT id, image_data, checksum, width, height, created_at FROM images WHERE id = ?`
	img, err := scanImage(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image %s: %w", id, err)
	}
	return img, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	n, err := dbx.Exec(ctx, r.db, `DELETE FROM images WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete image: %w", err)
	}
	return n > 0, nil
}
