// Package fakestore is an in-memory stand-in for the Postgres repository.
package fakestore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/genstudio/genstudio/internal/model"
	"github.com/genstudio/genstudio/internal/repository"
)

// Store implements the account and activity store interfaces in memory.
// It returns the same sentinel errors as repository.Repository.
type Store struct {
	mu         sync.Mutex
	accounts   map[string]*model.Account
	activities map[string]*model.ActivityRecord

	// RecordErr, when set, is returned by RecordActivity.
	RecordErr error
	// Recorded receives every successfully stored record.
	Recorded chan *model.ActivityRecord
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		accounts:   make(map[string]*model.Account),
		activities: make(map[string]*model.ActivityRecord),
		Recorded:   make(chan *model.ActivityRecord, 64),
	}
}

func (s *Store) CreateAccount(_ context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if existing.Username == account.Username {
			return repository.ErrUsernameExists
		}
		if existing.Email == account.Email {
			return repository.ErrEmailExists
		}
	}
	stored := *account
	s.accounts[account.ID] = &stored
	return nil
}

func (s *Store) GetAccountByUsername(_ context.Context, username string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.Username == username {
			out := *a
			return &out, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (s *Store) GetAccountByID(_ context.Context, id string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	out := *a
	return &out, nil
}

func (s *Store) RecordActivity(_ context.Context, record *model.ActivityRecord) error {
	if s.RecordErr != nil {
		return s.RecordErr
	}
	if !record.Capability.IsValid() {
		return fmt.Errorf("%w: %q", repository.ErrInvalidActivity, record.Capability)
	}

	s.mu.Lock()
	stored := *record
	s.activities[record.ID] = &stored
	s.mu.Unlock()

	select {
	case s.Recorded <- &stored:
	default:
	}
	return nil
}

func (s *Store) ListActivity(_ context.Context, accountID string) ([]*model.ActivityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.ActivityRecord, 0)
	for _, rec := range s.activities {
		if rec.UserID == accountID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) DeleteActivity(_ context.Context, accountID, activityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.activities[activityID]
	if !ok {
		return repository.ErrActivityNotFound
	}
	if rec.UserID != accountID {
		return repository.ErrNotOwner
	}
	delete(s.activities, activityID)
	return nil
}

// ActivityCount returns the number of stored activity records.
func (s *Store) ActivityCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activities)
}

// PutActivity stores a record directly, bypassing validation.
func (s *Store) PutActivity(record *model.ActivityRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *record
	s.activities[record.ID] = &stored
}
