package services

import (
	"context"
	"errors"
	"fmt"

	"esports-registration/models"
	"esports-registration/registration"
	"esports-registration/utils"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

// Directory is the backend behind the registration workflow: documents in
// the database, screenshots in object storage.
type Directory struct {
	DB      *gorm.DB
	Storage utils.ObjectStorage
}

func NewDirectory(db *gorm.DB, storage utils.ObjectStorage) *Directory {
	return &Directory{DB: db, Storage: storage}
}

var (
	_ registration.Directory = (*Directory)(nil)
	_ CatalogReader          = (*Directory)(nil)
)

// ListGames returns games in catalog order.
func (d *Directory) ListGames(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	if err := d.DB.WithContext(ctx).Order("sort_order asc, created_at asc, id asc").Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch games: %w", err)
	}
	return games, nil
}

// ListTournaments returns tournaments in catalog order.
func (d *Directory) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	var tournaments []models.Tournament
	if err := d.DB.WithContext(ctx).Order("sort_order asc, created_at asc, id asc").Find(&tournaments).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tournaments: %w", err)
	}
	return tournaments, nil
}

// GetGame looks a game up by id.
func (d *Directory) GetGame(ctx context.Context, id string) (models.Game, error) {
	var game models.Game
	if err := d.DB.WithContext(ctx).First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return game, fmt.Errorf("game %s: %w", id, ErrNotFound)
		}
		return game, fmt.Errorf("failed to fetch game %s: %w", id, err)
	}
	return game, nil
}

// GetTournament looks a tournament up by id.
func (d *Directory) GetTournament(ctx context.Context, id string) (models.Tournament, error) {
	var tournament models.Tournament
	if err := d.DB.WithContext(ctx).First(&tournament, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tournament, fmt.Errorf("tournament %s: %w", id, ErrNotFound)
		}
		return tournament, fmt.Errorf("failed to fetch tournament %s: %w", id, err)
	}
	return tournament, nil
}

func (d *Directory) UploadFile(ctx context.Context, data []byte, key, contentType string) (string, error) {
	return d.Storage.Put(ctx, key, data, contentType)
}

// CreateRecord inserts rec into the table named by collection.
func (d *Directory) CreateRecord(ctx context.Context, collection string, rec registration.Record) (string, error) {
	if err := d.DB.WithContext(ctx).Table(collection).Create(rec).Error; err != nil {
		return "", fmt.Errorf("failed to create %s record: %w", collection, err)
	}
	return rec.RecordID(), nil
}

// ReferencedScreenshotURLs returns every payment screenshot URL a registration points at.
func (d *Directory) ReferencedScreenshotURLs(ctx context.Context) (map[string]struct{}, error) {
	var urls []string
	if err := d.DB.WithContext(ctx).Model(&models.Registration{}).
		Where("payment_screenshot_url <> ''").
		Pluck("payment_screenshot_url", &urls).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch screenshot urls: %w", err)
	}
	set := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		set[u] = struct{}{}
	}
	return set, nil
}

// IsAdmin reports whether an admin marker exists for userID.
func (d *Directory) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	var n int64
	if err := d.DB.WithContext(ctx).Model(&models.Admin{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check admin %s: %w", userID, err)
	}
	return n > 0, nil
}
