package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/asistio/asistio/internal/repository"
	"github.com/asistio/asistio/internal/storage"
	"github.com/asistio/asistio/internal/validation"
)

// AvatarService stores profile pictures in object storage and keeps the
// profile row's avatar path in sync.
type AvatarService struct {
	profiles repository.ProfileRepository
	storage  storage.Storage
}

func NewAvatarService(profiles repository.ProfileRepository, store storage.Storage) *AvatarService {
	return &AvatarService{
		profiles: profiles,
		storage:  store,
	}
}

// Upload validates and stores a new avatar, replacing any previous one.
func (s *AvatarService) Upload(ctx context.Context, userID string, header *multipart.FileHeader) (string, error) {
	err := validation.ValidateFile(header, validation.ImageConstraints)
	if err != nil {
		return "", err
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	profile, err := s.profiles.ByID(ctx, userID)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	path := fmt.Sprintf("avatars/%s%s", userID, ext)

	err = s.storage.Save(path, file)
	if err != nil {
		return "", err
	}

	// Remove the old object when the extension changed, otherwise the
	// Save above already overwrote it.
	if profile.AvatarPath != nil && *profile.AvatarPath != path {
		err = s.storage.Delete(*profile.AvatarPath)
		if err != nil {
			return "", fmt.Errorf("failed to delete old avatar: %w", err)
		}
	}

	err = s.profiles.UpdateAvatar(ctx, userID, &path)
	if err != nil {
		return "", err
	}

	return s.storage.URL(path), nil
}

// Delete removes the stored avatar and clears the profile's path.
func (s *AvatarService) Delete(ctx context.Context, userID string) error {
	profile, err := s.profiles.ByID(ctx, userID)
	if err != nil {
		return err
	}

	if profile.AvatarPath != nil {
		err = s.storage.Delete(*profile.AvatarPath)
		if err != nil {
			return err
		}
	}

	return s.profiles.UpdateAvatar(ctx, userID, nil)
}

// URL resolves the avatar path to a browser-usable URL.
func (s *AvatarService) URL(path string) string {
	return s.storage.URL(path)
}
