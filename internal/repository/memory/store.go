// Package memory is a process-local implementation of the repository contracts.
// It backs DB_DRIVER=memory and the service/controller tests; every operation is atomic under one lock.
package memory

import (
	"context"
	"fmt"
	"sync"

	"voice-notes-be/internal/entity"
	"voice-notes-be/internal/repository/contract"
	"voice-notes-be/internal/repository/specification"
	"voice-notes-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type noteRecord struct {
	note entity.Note
	seq  int64
}

// Store holds every table. Share one Store between factories to share data.
type Store struct {
	mu         sync.RWMutex
	seq        int64
	notes      map[uuid.UUID]*noteRecord
	users      map[uuid.UUID]*entity.User
	activities []*entity.NoteActivity
}

func NewStore() *Store {
	return &Store{
		notes: make(map[uuid.UUID]*noteRecord),
		users: make(map[uuid.UUID]*entity.User),
	}
}

type repositoryFactory struct {
	store *Store
}

func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &repositoryFactory{store: store}
}

func (f *repositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

// unitOfWork has no real transactions: Begin/Commit/Rollback only have to be callable.
type unitOfWork struct {
	store *Store
}

func (u *unitOfWork) Begin(ctx context.Context) error { return nil }
func (u *unitOfWork) Commit() error                   { return nil }
func (u *unitOfWork) Rollback() error                 { return nil }

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return &userRepository{store: u.store}
}

func (u *unitOfWork) NoteRepository() contract.NoteRepository {
	return &noteRepository{store: u.store}
}

func (u *unitOfWork) NoteActivityRepository() contract.NoteActivityRepository {
	return &noteActivityRepository{store: u.store}
}

// filter is the subset of specifications the memory store understands.
type filter struct {
	id     *uuid.UUID
	userId *uuid.UUID
	email  *string
}

func toFilter(specs []specification.Specification) (filter, error) {
	var f filter
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			id := s.ID
			f.id = &id
		case specification.UserOwnedBy:
			userId := s.UserID
			f.userId = &userId
		case specification.ByEmail:
			email := s.Email
			f.email = &email
		case specification.OrderBy, specification.Pagination:
			// ordering is irrelevant for FindOne/Count
		default:
			return f, fmt.Errorf("memory: unsupported specification %T", spec)
		}
	}
	return f, nil
}

func copyNote(n entity.Note) *entity.Note {
	out := n
	if n.Summary != nil {
		s := *n.Summary
		out.Summary = &s
	}
	return &out
}
