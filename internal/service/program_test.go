package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/programpal/pathfinder/internal/repository"
)

func TestProgramService(t *testing.T) {
	ctx := context.Background()
	database := openDB(t)
	owner := seedUser(t, database, "owner@example.com")
	other := seedUser(t, database, "other@example.com")
	programs := NewProgramService(repository.NewProgramRepository(database))

	created, err := programs.Create(ctx, owner.ID, ProgramInput{
		Name:       "  MSc Data Science ",
		University: ptr("University of Amsterdam"),
		Country:    ptr("   "),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "MSc Data Science" || created.OwnerID != owner.ID {
		t.Fatalf("unexpected program %+v", created)
	}
	if created.Country != nil {
		t.Fatalf("expected blank country to be stored as null, got %q", *created.Country)
	}

	_, err = programs.ByID(ctx, other.ID, created.ID)
	if !errors.Is(err, repository.ErrProgramNotFound) {
		t.Fatalf("expected other owner to get not found, got %v", err)
	}

	list, err := programs.List(ctx, owner.ID, repository.Page{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 program, got %d", len(list))
	}

	_, err = programs.List(ctx, owner.ID, repository.Page{Limit: 0})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected invalid page, got %v", err)
	}

	err = programs.Delete(ctx, other.ID, created.ID)
	if !errors.Is(err, repository.ErrProgramNotFound) {
		t.Fatalf("expected other owner delete to be not found, got %v", err)
	}
	err = programs.Delete(ctx, owner.ID, created.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = programs.Delete(ctx, owner.ID, created.ID)
	if !errors.Is(err, repository.ErrProgramNotFound) {
		t.Fatalf("expected second delete to be not found, got %v", err)
	}
}

func TestProgramValidation(t *testing.T) {
	database := openDB(t)
	owner := seedUser(t, database, "owner@example.com")
	programs := NewProgramService(repository.NewProgramRepository(database))

	tests := []struct {
		name string
		in   ProgramInput
	}{
		{"missing name", ProgramInput{Name: "   "}},
		{"long name", ProgramInput{Name: strings.Repeat("n", 201)}},
		{"long country", ProgramInput{Name: "x", Country: ptr(strings.Repeat("c", 101))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := programs.Create(context.Background(), owner.ID, tt.in)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}
