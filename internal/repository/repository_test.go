package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/programpal/pathfinder/internal/db/dbtest"
	"github.com/programpal/pathfinder/internal/model"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func createUser(t *testing.T, database *sqlx.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	if err := NewUserRepository(database).Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	database := dbtest.Open(t)
	repo := NewUserRepository(database)

	user := createUser(t, database, "ada@example.com")

	got, err := repo.ByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("ByEmail: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected id %s, got %s", user.ID, got.ID)
	}

	dup := &model.User{ID: uuid.New().String(), Email: "ada@example.com", PasswordHash: "x", CreatedAt: time.Now().UTC()}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	if _, err := repo.ByID(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.ByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestProgramRepositoryOwnerScoping(t *testing.T) {
	ctx := context.Background()
	database := dbtest.Open(t)
	repo := NewProgramRepository(database)

	alice := createUser(t, database, "alice@example.com")
	bob := createUser(t, database, "bob@example.com")

	base := time.Now().UTC()
	var ids []string
	for i, name := range []string{"MSc Data Science", "MEng Robotics", "MA Linguistics"} {
		p := &model.Program{
			ID:         uuid.New().String(),
			OwnerID:    alice.ID,
			Name:       name,
			University: strPtr("TU Delft"),
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, p.ID)
	}

	list, err := repo.Programs(ctx, alice.ID, Page{Skip: 0, Limit: 100})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Name != "MSc Data Science" || list[2].Name != "MA Linguistics" {
		t.Fatalf("expected insertion order, got %+v", list)
	}
	if list[0].Country != nil {
		t.Fatalf("expected nil country, got %v", *list[0].Country)
	}

	paged, err := repo.Programs(ctx, alice.ID, Page{Skip: 1, Limit: 1})
	if err != nil {
		t.Fatalf("paged list: %v", err)
	}
	if len(paged) != 1 || paged[0].ID != ids[1] {
		t.Fatalf("expected second program, got %+v", paged)
	}

	other, err := repo.Programs(ctx, bob.ID, Page{Limit: 100})
	if err != nil {
		t.Fatalf("list bob: %v", err)
	}
	if other == nil || len(other) != 0 {
		t.Fatalf("expected empty non-nil list for bob, got %v", other)
	}

	if _, err := repo.ByID(ctx, bob.ID, ids[0]); !errors.Is(err, ErrProgramNotFound) {
		t.Fatalf("expected not found for foreign program, got %v", err)
	}
	if err := repo.Delete(ctx, bob.ID, ids[0]); !errors.Is(err, ErrProgramNotFound) {
		t.Fatalf("expected not found deleting foreign program, got %v", err)
	}
	if _, err := repo.ByID(ctx, alice.ID, ids[0]); err != nil {
		t.Fatalf("program should survive foreign delete: %v", err)
	}

	if err := repo.Delete(ctx, alice.ID, ids[0]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, alice.ID, ids[0]); !errors.Is(err, ErrProgramNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestPageValidation(t *testing.T) {
	ctx := context.Background()
	database := dbtest.Open(t)
	repo := NewProgramRepository(database)
	user := createUser(t, database, "p@example.com")

	for _, page := range []Page{{Skip: -1, Limit: 10}, {Skip: 0, Limit: 0}, {Skip: 0, Limit: MaxLimit + 1}} {
		if _, err := repo.Programs(ctx, user.ID, page); !errors.Is(err, ErrInvalidPage) {
			t.Fatalf("page %+v: expected ErrInvalidPage, got %v", page, err)
		}
	}
}

func TestDocumentRepositoryDeleteReturning(t *testing.T) {
	ctx := context.Background()
	database := dbtest.Open(t)
	repo := NewDocumentRepository(database)

	alice := createUser(t, database, "alice@example.com")
	bob := createUser(t, database, "bob@example.com")

	doc := &model.Document{
		ID:          uuid.New().String(),
		OwnerID:     alice.ID,
		Filename:    "cv.pdf",
		FilePath:    "documents/" + alice.ID + "/cv.pdf",
		Description: strPtr("resume"),
		ContentType: "application/pdf",
		Size:        1234,
		CreatedAt:   time.Now().UTC(),
	}
	if err := repo.Create(ctx, doc); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.Delete(ctx, bob.ID, doc.ID); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected not found for foreign delete, got %v", err)
	}

	deleted, err := repo.Delete(ctx, alice.ID, doc.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.FilePath != doc.FilePath || deleted.Size != 1234 {
		t.Fatalf("expected deleted row to be returned, got %+v", deleted)
	}

	if _, err := repo.Delete(ctx, alice.ID, doc.ID); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func newEmail(ownerID, folder string, read bool, receivedAt time.Time) *model.Email {
	return &model.Email{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		Sender:     "admissions@uni.edu",
		Recipient:  "me@example.com",
		Subject:    strPtr("Your application"),
		ReceivedAt: receivedAt,
		IsRead:     read,
		Folder:     folder,
		Revision:   1,
		UpdatedAt:  receivedAt,
	}
}

func TestEmailRepositoryListing(t *testing.T) {
	ctx := context.Background()
	database := dbtest.Open(t)
	repo := NewEmailRepository(database)

	alice := createUser(t, database, "alice@example.com")
	bob := createUser(t, database, "bob@example.com")

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	oldest := newEmail(alice.ID, model.FolderInbox, true, base)
	middle := newEmail(alice.ID, model.FolderArchive, false, base.Add(time.Hour))
	newest := newEmail(alice.ID, model.FolderInbox, false, base.Add(2*time.Hour))
	foreign := newEmail(bob.ID, model.FolderInbox, false, base.Add(3*time.Hour))
	for _, e := range []*model.Email{oldest, middle, newest, foreign} {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := repo.Emails(ctx, alice.ID, model.EmailFilter{}, Page{Limit: 50})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != newest.ID || all[2].ID != oldest.ID {
		t.Fatalf("expected newest first and no foreign rows, got %d rows", len(all))
	}

	inbox := model.FolderInbox
	unread, err := repo.Emails(ctx, alice.ID, model.EmailFilter{Folder: &inbox, IsRead: boolPtr(false)}, Page{Limit: 50})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(unread) != 1 || unread[0].ID != newest.ID {
		t.Fatalf("expected only the unread inbox email, got %d rows", len(unread))
	}

	if _, err := repo.ByID(ctx, bob.ID, oldest.ID); !errors.Is(err, ErrEmailNotFound) {
		t.Fatalf("expected not found for foreign email, got %v", err)
	}
}

func TestEmailRepositoryUpdateStatus(t *testing.T) {
	ctx := context.Background()
	database := dbtest.Open(t)
	repo := NewEmailRepository(database)

	alice := createUser(t, database, "alice@example.com")
	bob := createUser(t, database, "bob@example.com")

	received := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	email := newEmail(alice.ID, model.FolderInbox, false, received)
	if err := repo.Create(ctx, email); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Same values as stored: no write happens.
	same, err := repo.UpdateStatus(ctx, alice.ID, email.ID, model.EmailStatusUpdate{IsRead: boolPtr(false), Folder: strPtr(model.FolderInbox)})
	if err != nil {
		t.Fatalf("no-op update: %v", err)
	}
	if same.Revision != 1 || !same.UpdatedAt.Equal(received) {
		t.Fatalf("expected untouched row, got revision %d updated_at %s", same.Revision, same.UpdatedAt)
	}

	updated, err := repo.UpdateStatus(ctx, alice.ID, email.ID, model.EmailStatusUpdate{IsRead: boolPtr(true)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsRead || updated.Folder != model.FolderInbox || updated.Revision != 2 {
		t.Fatalf("unexpected row after update: %+v", updated)
	}
	if !updated.UpdatedAt.After(received) {
		t.Fatalf("expected updated_at to move, got %s", updated.UpdatedAt)
	}

	stored, err := repo.ByID(ctx, alice.ID, email.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Revision != 2 || !stored.IsRead {
		t.Fatalf("expected persisted update, got %+v", stored)
	}

	if _, err := repo.UpdateStatus(ctx, bob.ID, email.ID, model.EmailStatusUpdate{IsRead: boolPtr(false)}); !errors.Is(err, ErrEmailNotFound) {
		t.Fatalf("expected not found for foreign update, got %v", err)
	}

	if err := repo.Delete(ctx, bob.ID, email.ID); !errors.Is(err, ErrEmailNotFound) {
		t.Fatalf("expected not found for foreign delete, got %v", err)
	}
	if err := repo.Delete(ctx, alice.ID, email.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestEmailRepositoryConcurrentUpdateStatus(t *testing.T) {
	ctx := context.Background()
	database := dbtest.Open(t)
	repo := NewEmailRepository(database)

	alice := createUser(t, database, "alice@example.com")
	email := newEmail(alice.ID, model.FolderInbox, false, time.Now().UTC())
	if err := repo.Create(ctx, email); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Ten distinct folder moves always change the row. Ten "mark read" calls
	// change it exactly once between them.
	const moves = 10
	var wg sync.WaitGroup
	errs := make(chan error, 2*moves)
	for i := range moves {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := repo.UpdateStatus(ctx, alice.ID, email.ID, model.EmailStatusUpdate{Folder: strPtr(fmt.Sprintf("f%02d", i))})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := repo.UpdateStatus(ctx, alice.ID, email.ID, model.EmailStatusUpdate{IsRead: boolPtr(true)})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent update: %v", err)
		}
	}

	stored, err := repo.ByID(ctx, alice.ID, email.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if want := 1 + moves + 1; stored.Revision != want {
		t.Fatalf("expected revision %d, got %d", want, stored.Revision)
	}
	if !stored.IsRead || !strings.HasPrefix(stored.Folder, "f") {
		t.Fatalf("unexpected final state: %+v", stored)
	}
}
