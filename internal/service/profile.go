package service

import (
	"context"
	"strings"

	"github.com/asistio/asistio/internal/model"
	"github.com/asistio/asistio/internal/repository"
	"github.com/asistio/asistio/internal/validation"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
	}
}

func (s *ProfileService) ByID(ctx context.Context, id string) (*model.Profile, error) {
	return s.profileRepo.ByID(ctx, id)
}

func (s *ProfileService) List(ctx context.Context) ([]model.Profile, error) {
	return s.profileRepo.List(ctx)
}

func (s *ProfileService) Update(ctx context.Context, id string, fields repository.ProfileFields) error {
	return s.profileRepo.Update(ctx, id, fields)
}

func (s *ProfileService) UpdateNames(ctx context.Context, id, givenNames, familyNames string) error {
	givenNames = strings.TrimSpace(givenNames)
	familyNames = strings.TrimSpace(familyNames)

	err := validation.ValidateName(givenNames)
	if err != nil {
		return err
	}
	err = validation.ValidateName(familyNames)
	if err != nil {
		return err
	}

	return s.profileRepo.UpdateNames(ctx, id, givenNames, familyNames)
}
