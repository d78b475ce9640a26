package cards

import (
	"context"
	"testing"

	"github.com/dropDatabas3/hellocard/internal/authz"
	dto "github.com/dropDatabas3/hellocard/internal/http/dto/cards"
	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
	"github.com/dropDatabas3/hellocard/internal/store/memory"
)

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	appErr, ok := err.(*httperrors.AppError)
	if !ok {
		t.Fatalf("quería *AppError %s, vino %v", code, err)
	}
	if appErr.Code != code {
		t.Fatalf("code = %s, quería %s (detail: %s)", appErr.Code, code, appErr.Detail)
	}
}

func owner(id string) *authz.Subject {
	return &authz.Subject{ID: id, Role: authz.RoleUser, Verified: true}
}

func validCard(slug string) dto.CardRequest {
	return dto.CardRequest{
		Slug: slug, Name: "Ana García", Title: "Diseñadora",
		Company: "HelloCard", Published: true,
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(memory.New())
	ctx := context.Background()
	sub := owner("u1")

	_, err := svc.Create(ctx, sub, dto.CardRequest{Slug: "ana"})
	wantCode(t, err, "MISSING_FIELDS")

	for _, slug := range []string{"", "a", "Con-Mayúsculas", "-empieza-mal", "termina-mal-", "con espacios"} {
		in := validCard(slug)
		if _, err := svc.Create(ctx, sub, in); err == nil {
			t.Fatalf("slug %q debía rechazarse", slug)
		}
	}
}

func TestCreate_SlugConflict(t *testing.T) {
	svc := NewService(memory.New())
	ctx := context.Background()

	if _, err := svc.Create(ctx, owner("u1"), validCard("ana-garcia")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// mismo slug en otra capitalización sigue chocando
	_, err := svc.Create(ctx, owner("u2"), validCard("Ana-Garcia"))
	wantCode(t, err, "CONFLICT")
}

func TestPublicBySlug_OnlyPublished(t *testing.T) {
	svc := NewService(memory.New())
	ctx := context.Background()

	in := validCard("ana-garcia")
	in.Published = false
	if _, err := svc.Create(ctx, owner("u1"), in); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := svc.PublicBySlug(ctx, "ana-garcia")
	wantCode(t, err, "NOT_FOUND")

	pub := validCard("leo-m")
	if _, err := svc.Create(ctx, owner("u1"), pub); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := svc.PublicBySlug(ctx, "LEO-M")
	if err != nil {
		t.Fatalf("PublicBySlug: %v", err)
	}
	if got.Slug != "leo-m" || got.Name != "Ana García" {
		t.Fatalf("vista pública inesperada: %+v", got)
	}
}

func TestOwnership(t *testing.T) {
	svc := NewService(memory.New())
	ctx := context.Background()

	created, err := svc.Create(ctx, owner("u1"), validCard("ana-garcia"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// otro usuario ve 404, no 403: no se filtra existencia de IDs ajenos
	_, err = svc.Get(ctx, owner("u2"), created.ID)
	wantCode(t, err, "NOT_FOUND")
	wantCode(t, svc.Delete(ctx, owner("u2"), created.ID), "NOT_FOUND")

	// el dueño opera normal
	got, err := svc.Get(ctx, owner("u1"), created.ID)
	if err != nil || got.ID != created.ID {
		t.Fatalf("Get dueño: %v", err)
	}

	// un ADMIN opera cualquier card
	admin := &authz.Subject{ID: "root", Role: authz.RoleAdmin, Verified: true}
	upd := validCard("ana-garcia")
	upd.Bio = "actualizada por soporte"
	if _, err := svc.Update(ctx, admin, created.ID, upd); err != nil {
		t.Fatalf("Update admin: %v", err)
	}
	if err := svc.Delete(ctx, admin, created.ID); err != nil {
		t.Fatalf("Delete admin: %v", err)
	}
	_, err = svc.Get(ctx, owner("u1"), created.ID)
	wantCode(t, err, "NOT_FOUND")
}

func TestListMine(t *testing.T) {
	svc := NewService(memory.New())
	ctx := context.Background()

	if _, err := svc.Create(ctx, owner("u1"), validCard("ana-1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, owner("u1"), validCard("ana-2")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, owner("u2"), validCard("leo-1")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	mine, err := svc.ListMine(ctx, owner("u1"))
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("len = %d, quería 2", len(mine))
	}
}
