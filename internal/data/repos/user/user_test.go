package user

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/force-backend/internal/data/dberr"
	"github.com/yungbote/force-backend/internal/data/repos/testutil"
	types "github.com/yungbote/force-backend/internal/domain"
	"github.com/yungbote/force-backend/internal/domain/apperr"
	"github.com/yungbote/force-backend/internal/pkg/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.New(context.Background())

	email := testutil.UniqueEmail("userrepo")
	created, err := repo.Create(dbc, &types.User{Email: email, Name: "Ada"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil || created.CreatedAt.IsZero() {
		t.Fatalf("Create: expected generated id and timestamps, got %+v", created)
	}

	got, err := repo.GetByID(dbc, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Email != email {
		t.Fatalf("GetByID: unexpected email %q", got.Email)
	}

	byEmail, err := repo.FindByEmail(dbc, email)
	if err != nil || byEmail == nil || byEmail.ID != created.ID {
		t.Fatalf("FindByEmail: %+v, %v", byEmail, err)
	}

	missing, err := repo.FindByGoogleID(dbc, "nope")
	if err != nil || missing != nil {
		t.Fatalf("FindByGoogleID (missing): %+v, %v", missing, err)
	}

	updated, err := repo.UpdateIdentity(dbc, created.ID, "g-123", "Ada L.", "https://img")
	if err != nil {
		t.Fatalf("UpdateIdentity: %v", err)
	}
	if updated.Name != "Ada L." || updated.GoogleID == nil || *updated.GoogleID != "g-123" {
		t.Fatalf("UpdateIdentity: unexpected %+v", updated)
	}
	byGoogle, err := repo.FindByGoogleID(dbc, "g-123")
	if err != nil || byGoogle == nil || byGoogle.ID != created.ID {
		t.Fatalf("FindByGoogleID: %+v, %v", byGoogle, err)
	}

	if _, err := repo.Create(dbc, &types.User{Email: email, Name: "Dup"}); !dberr.IsUniqueViolation(err) {
		t.Fatalf("Create duplicate: expected unique violation, got %v", err)
	}
}

func TestUserRepoGetMissing(t *testing.T) {
	repo := NewUserRepo(testutil.DB(t), testutil.Logger(t))
	_, err := repo.GetByID(dbctx.New(context.Background()), uuid.New())
	if !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestSetTargetProfileRoundTrip(t *testing.T) {
	db := testutil.DB(t)
	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.New(ctx)
	u := testutil.SeedUser(t, ctx, db, testutil.UniqueEmail("profile"))

	profile := datatypes.JSON(`{"archetype":"Builder","skillAreas":[{"area":"Craft","skills":[{"id":"go","name":"Go","description":"d","targetLevel":4}]}]}`)
	if err := repo.SetTargetProfile(dbc, u.ID, "Backend engineer", profile); err != nil {
		t.Fatalf("SetTargetProfile: %v", err)
	}
	got, err := repo.GetByID(dbc, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !sameJSON(t, got.TargetProfile, profile) {
		t.Fatalf("profile did not round-trip:\n got %s\nwant %s", got.TargetProfile, profile)
	}
	if got.RoleDescription == nil || *got.RoleDescription != "Backend engineer" {
		t.Fatalf("role description not stored: %v", got.RoleDescription)
	}

	if err := repo.SetTargetProfile(dbc, uuid.New(), "x", profile); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected not_found for missing user, got %v", err)
	}
}

func sameJSON(t *testing.T, a, b []byte) bool {
	t.Helper()
	var va, vb any
	if err := json.Unmarshal(a, &va); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := json.Unmarshal(b, &vb); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return reflect.DeepEqual(va, vb)
}
