package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/twentyhard/twentyhard/internal/challenge"
	"github.com/twentyhard/twentyhard/internal/model"
	"github.com/twentyhard/twentyhard/internal/storage"
	"github.com/twentyhard/twentyhard/internal/validation"
)

var ErrPhotosDisabled = errors.New("photo uploads are not configured")

// PhotoService stores today's progress photo and marks the photo task.
type PhotoService struct {
	storage          storage.Storage
	challengeService *ChallengeService
}

func NewPhotoService(store storage.Storage, challengeService *ChallengeService) *PhotoService {
	return &PhotoService{storage: store, challengeService: challengeService}
}

func (s *PhotoService) Enabled() bool {
	return s.storage != nil
}

func (s *PhotoService) Upload(ctx context.Context, userID string, header *multipart.FileHeader) (*model.Challenge, error) {
	if s.storage == nil {
		return nil, ErrPhotosDisabled
	}

	contentType, err := validation.ValidateUpload(header, validation.ProgressPhoto)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	engine := s.challengeService.Engine()
	now := engine.Now()
	date := challenge.FormatDate(now)
	key := storage.PhotoKey(userID, date, validation.ProgressPhoto.MimeTypes[contentType])

	err = s.storage.Save(ctx, key, file, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	url, err := s.storage.URL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get photo url: %w", err)
	}

	ch, err := s.challengeService.LogDay(ctx, userID, date, model.Tasks{
		challenge.TaskPhoto: map[string]any{
			"uploaded":  true,
			"timestamp": now.Format(time.RFC3339),
			"url":       url,
			"key":       key,
		},
	})
	if err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			slog.Warn("failed to remove orphaned photo", "key", key, "error", delErr)
		}
		return nil, err
	}
	return ch, nil
}
