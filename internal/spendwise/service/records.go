package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spendwise-app/spendwise/internal/spendwise/domain"
	"github.com/spendwise-app/spendwise/internal/spendwise/store"
	"github.com/spendwise-app/spendwise/pkg/idx"
)

// RecordService provides owner-scoped CRUD over the expense and income
// collections. A record id from one owner is invisible to every other.
type RecordService struct {
	Store store.Store
}

// Create validates and stores a new record, filling in its id.
func (s *RecordService) Create(ctx context.Context, kind domain.Kind, owner idx.ID, rec domain.Record) (domain.Record, error) {
	if err := validateRecord(rec); err != nil {
		return domain.Record{}, err
	}

	rec.ID = idx.New()
	rec.OwnerID = owner
	rec.Title = strings.TrimSpace(rec.Title)
	if err := s.Store.Records().Create(ctx, &rec, kind); err != nil {
		return domain.Record{}, err
	}
	return rec, nil
}

// List returns all of an owner's records of one kind, newest date first.
func (s *RecordService) List(ctx context.Context, kind domain.Kind, owner idx.ID) ([]domain.Record, error) {
	return s.Store.Records().ListByOwner(ctx, kind, owner)
}

// Get fetches one owned record.
func (s *RecordService) Get(ctx context.Context, kind domain.Kind, owner, id idx.ID) (domain.Record, error) {
	rec, err := s.Store.Records().Get(ctx, kind, owner, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Record{}, ErrRecordNotFound
		}
		return domain.Record{}, err
	}
	return rec, nil
}

// Update replaces the mutable fields of an owned record.
func (s *RecordService) Update(ctx context.Context, kind domain.Kind, owner, id idx.ID, in domain.Record) (domain.Record, error) {
	if err := validateRecord(in); err != nil {
		return domain.Record{}, err
	}

	rec, err := s.Get(ctx, kind, owner, id)
	if err != nil {
		return domain.Record{}, err
	}

	rec.Title = strings.TrimSpace(in.Title)
	rec.Description = in.Description
	rec.Category = in.Category
	rec.Date = in.Date
	rec.Amount = in.Amount

	if err := s.Store.Records().Update(ctx, &rec, kind); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Record{}, ErrRecordNotFound
		}
		return domain.Record{}, err
	}
	return rec, nil
}

// Delete removes an owned record.
func (s *RecordService) Delete(ctx context.Context, kind domain.Kind, owner, id idx.ID) error {
	if err := s.Store.Records().Delete(ctx, kind, owner, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrRecordNotFound
		}
		return err
	}
	return nil
}

func validateRecord(rec domain.Record) error {
	if strings.TrimSpace(rec.Title) == "" {
		return ErrInvalidRecord
	}
	if rec.Amount == 0 {
		return ErrInvalidRecord
	}
	if rec.Date.IsZero() {
		return ErrInvalidRecord
	}
	return nil
}
