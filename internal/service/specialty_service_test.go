package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Leganyst/clinic-booking/internal/repository"
)

func TestSpecialtyService(t *testing.T) {
	env := newEnv(t)
	svc := NewSpecialtyService(env.repos.Specialties, zerolog.Nop())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateSpecialtyInput{Name: "  Endodontics ", HasInstallments: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Endodontics" || !created.IsActive {
		t.Fatalf("created = %+v", created)
	}
	if _, err := svc.Create(ctx, CreateSpecialtyInput{Name: "Endodontics"}); !errors.Is(err, ErrSpecialtyExists) {
		t.Fatalf("duplicate: err = %v, want ErrSpecialtyExists", err)
	}
	if _, err := svc.Create(ctx, CreateSpecialtyInput{Name: " "}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("blank: err = %v, want ErrInvalidArgument", err)
	}

	if _, err := svc.SetActive(ctx, created.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	page, err := svc.ListActive(ctx, repository.PageRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || page.Items[0].ID != env.specialty.ID {
		t.Fatalf("active = %+v", page.Items)
	}

	if _, err := svc.Get(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get unknown: err = %v, want NotFound", err)
	}
}
