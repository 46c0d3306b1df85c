package service

import (
	"context"

	"github.com/asistio/asistio/internal/model"
	"github.com/asistio/asistio/internal/repository"
)

// ReferenceService exposes the read-only lookup tables the registration
// forms are built from.
type ReferenceService struct {
	referenceRepo repository.ReferenceRepository
}

func NewReferenceService(referenceRepo repository.ReferenceRepository) *ReferenceService {
	return &ReferenceService{
		referenceRepo: referenceRepo,
	}
}

func (s *ReferenceService) Roles(ctx context.Context) ([]model.Role, error) {
	return s.referenceRepo.Roles(ctx)
}

func (s *ReferenceService) Faculties(ctx context.Context) ([]model.Faculty, error) {
	return s.referenceRepo.Faculties(ctx)
}

func (s *ReferenceService) Careers(ctx context.Context) ([]model.Career, error) {
	return s.referenceRepo.Careers(ctx)
}
