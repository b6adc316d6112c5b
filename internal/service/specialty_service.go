package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/repository"
)

var ErrSpecialtyExists = errors.New("specialty with this name already exists")

type CreateSpecialtyInput struct {
	Name            string
	Description     string
	HasInstallments bool
}

type SpecialtyService struct {
	repo repository.SpecialtyRepository
	log  zerolog.Logger
}

func NewSpecialtyService(repo repository.SpecialtyRepository, log zerolog.Logger) *SpecialtyService {
	return &SpecialtyService{repo: repo, log: log.With().Str("component", "specialties").Logger()}
}

// ListActive — публичный каталог специальностей.
func (s *SpecialtyService) ListActive(ctx context.Context, page repository.PageRequest) (repository.Page[model.Specialty], error) {
	items, total, err := s.repo.List(ctx, true, page)
	if err != nil {
		return repository.Page[model.Specialty]{}, err
	}
	return repository.NewPage(items, total, page), nil
}

func (s *SpecialtyService) Get(ctx context.Context, id uuid.UUID) (*model.Specialty, error) {
	sp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "specialty")
	}
	return sp, nil
}

func (s *SpecialtyService) Create(ctx context.Context, in CreateSpecialtyInput) (*model.Specialty, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidArgument("name is required")
	}

	sp := &model.Specialty{
		Name:            name,
		Description:     strings.TrimSpace(in.Description),
		HasInstallments: in.HasInstallments,
		IsActive:        true,
	}
	if err := s.repo.Create(ctx, sp); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSpecialtyExists
		}
		return nil, err
	}

	s.log.Info().Str("specialty_id", sp.ID.String()).Str("name", sp.Name).Msg("specialty created")
	return sp, nil
}

// SetActive включает или выключает приём по специальности.
func (s *SpecialtyService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*model.Specialty, error) {
	sp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sp.IsActive = active
	if err := s.repo.Update(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}
