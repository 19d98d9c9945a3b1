package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/programpal/pathfinder/internal/db/dbtest"
	"github.com/programpal/pathfinder/internal/model"
	"github.com/programpal/pathfinder/internal/repository"
	"github.com/programpal/pathfinder/internal/storage"
)

const testPassword = "correct horse battery"

// seedUser inserts a user directly so tests do not pay for bcrypt.
func seedUser(t *testing.T, database *sqlx.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	err := repository.NewUserRepository(database).Create(context.Background(), user)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// memStorage is an in-memory storage.Storage that counts deletes.
type memStorage struct {
	mu         sync.Mutex
	objects    map[string][]byte
	deletes    map[string]int
	failDelete bool
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}, deletes: map[string]int{}}
}

func (m *memStorage) Save(_ context.Context, path string, r io.Reader) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[path]; ok {
		return storage.ErrExists
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[path] = data
	return nil
}

func (m *memStorage) Open(_ context.Context, path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[path]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStorage) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes[path]++
	if m.failDelete {
		return errors.New("storage unavailable")
	}
	delete(m.objects, path)
	return nil
}

func (m *memStorage) has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[path]
	return ok
}

// failingDocuments wraps a repository and rejects every insert.
type failingDocuments struct {
	repository.DocumentRepository
}

func (failingDocuments) Create(context.Context, *model.Document) error {
	return errors.New("database is locked")
}

type recordingMailer struct {
	sent []*OutgoingMessage
	err  error
}

func (m *recordingMailer) Deliver(_ context.Context, msg *OutgoingMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func openDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return dbtest.Open(t)
}

func ptr[T any](v T) *T {
	return &v
}
