package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/programpal/pathfinder/internal/model"
	"github.com/programpal/pathfinder/internal/repository"
	"github.com/programpal/pathfinder/internal/validation"
)

type ProgramInput struct {
	Name       string  `json:"name"`
	University *string `json:"university"`
	Country    *string `json:"country"`
	Details    *string `json:"details"`
}

type ProgramService struct {
	programRepository repository.ProgramRepository
}

func NewProgramService(programRepository repository.ProgramRepository) *ProgramService {
	return &ProgramService{programRepository: programRepository}
}

func (s *ProgramService) Create(ctx context.Context, ownerID string, in ProgramInput) (*model.Program, error) {
	name, err := validation.ValidateRequired("name", in.Name, 200)
	if err != nil {
		return nil, invalid(err)
	}
	university, err := validation.ValidateOptional("university", in.University, 200)
	if err != nil {
		return nil, invalid(err)
	}
	country, err := validation.ValidateOptional("country", in.Country, 100)
	if err != nil {
		return nil, invalid(err)
	}
	details, err := validation.ValidateOptional("details", in.Details, 10000)
	if err != nil {
		return nil, invalid(err)
	}

	program := &model.Program{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		Name:       name,
		University: university,
		Country:    country,
		Details:    details,
		CreatedAt:  time.Now().UTC(),
	}

	err = s.programRepository.Create(ctx, program)
	if err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}

	return program, nil
}

func (s *ProgramService) ByID(ctx context.Context, ownerID, id string) (*model.Program, error) {
	return s.programRepository.ByID(ctx, ownerID, id)
}

func (s *ProgramService) List(ctx context.Context, ownerID string, page repository.Page) ([]*model.Program, error) {
	if err := page.Validate(); err != nil {
		return nil, invalid(err)
	}
	return s.programRepository.Programs(ctx, ownerID, page)
}

func (s *ProgramService) Delete(ctx context.Context, ownerID, id string) error {
	return s.programRepository.Delete(ctx, ownerID, id)
}
