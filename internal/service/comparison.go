package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"homepick/internal/repository"
	"homepick/pkg/comparison"
	"homepick/pkg/customerror"
	"homepick/pkg/features"
	"homepick/pkg/property"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ComparisonServiceI interface {
	GetState(sessionId uuid.UUID) comparison.State
	Add(sessionId uuid.UUID, propertyId string) (comparison.State, error)
	Remove(sessionId uuid.UUID, propertyId string) (comparison.State, error)
	ClearAll(sessionId uuid.UUID) comparison.State
	Details(propertyIds []string) ([]property.Summary, features.Matrix, error)
}

// sessionSet pairs a comparison set with its own lock; gin serves requests
// concurrently even though each browser session mutates one at a time.
type sessionSet struct {
	mu  sync.Mutex
	set *comparison.Set
}

type ComparisonService struct {
	sets           sync.Map
	comparisonRepo repository.ComparisonRepositoryI
	propertyRepo   repository.PropertyRepositoryI
	notifier       NotifierServiceI
	host           string
	port           string
}

func NewComparisonService(comparisonRepo repository.ComparisonRepositoryI, propertyRepo repository.PropertyRepositoryI, notifier NotifierServiceI, host string, port string) ComparisonServiceI {
	return &ComparisonService{
		sets:           sync.Map{},
		comparisonRepo: comparisonRepo,
		propertyRepo:   propertyRepo,
		notifier:       notifier,
		host:           host,
		port:           port,
	}
}

// sessionSetFor hydrates the session's set from storage on first touch.
// A missing row means a fresh session; a read failure or corrupt snapshot
// is logged and the session starts empty.
func (s *ComparisonService) sessionSetFor(sessionId uuid.UUID) *sessionSet {
	if existing, ok := s.sets.Load(sessionId); ok {
		return existing.(*sessionSet)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	set := comparison.NewSet()
	summaries, err := s.comparisonRepo.GetSnapshot(ctx, sessionId)
	if err == nil {
		set = comparison.RestoreSet(summaries)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		log.Println(err.Error())
	}
	actual, _ := s.sets.LoadOrStore(sessionId, &sessionSet{set: set})
	return actual.(*sessionSet)
}

// persist writes the snapshot best-effort. Storage failures never roll back
// the in-memory change; the session keeps working from memory.
func (s *ComparisonService) persist(sessionId uuid.UUID, state comparison.State) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	var err error
	if state.Count == 0 {
		err = s.comparisonRepo.DeleteSnapshot(ctx, sessionId)
	} else {
		err = s.comparisonRepo.SaveSnapshot(ctx, sessionId, state.Selected)
	}
	if err != nil {
		customErr := err.(customerror.CustomError)
		customErr.AppendModule("ComparisonService.persist")
		log.Println(customErr.Error())
	}
}

func (s *ComparisonService) GetState(sessionId uuid.UUID) comparison.State {
	holder := s.sessionSetFor(sessionId)
	holder.mu.Lock()
	defer holder.mu.Unlock()
	return holder.set.Snapshot()
}

func (s *ComparisonService) Add(sessionId uuid.UUID, propertyId string) (comparison.State, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	p, err := s.propertyRepo.GetProperty(ctx, propertyId)
	if err == pgx.ErrNoRows {
		return comparison.State{}, pgx.ErrNoRows
	}
	if err != nil {
		customErr := err.(customerror.CustomError)
		customErr.AppendModule("ComparisonService.Add")
		return comparison.State{}, customErr
	}

	holder := s.sessionSetFor(sessionId)
	holder.mu.Lock()
	defer holder.mu.Unlock()
	if !holder.set.Add(*p) {
		if holder.set.IsSelected(propertyId) {
			return holder.set.Snapshot(), customerror.ErrAlreadyInComparison
		}
		return holder.set.Snapshot(), customerror.ErrComparisonFull
	}
	state := holder.set.Snapshot()
	s.persist(sessionId, state)
	s.notifier.Broadcast(sessionId, state)
	return state, nil
}

func (s *ComparisonService) Remove(sessionId uuid.UUID, propertyId string) (comparison.State, error) {
	holder := s.sessionSetFor(sessionId)
	holder.mu.Lock()
	defer holder.mu.Unlock()
	if !holder.set.Remove(propertyId) {
		return holder.set.Snapshot(), customerror.ErrNotInComparison
	}
	state := holder.set.Snapshot()
	s.persist(sessionId, state)
	s.notifier.Broadcast(sessionId, state)
	return state, nil
}

func (s *ComparisonService) ClearAll(sessionId uuid.UUID) comparison.State {
	holder := s.sessionSetFor(sessionId)
	holder.mu.Lock()
	defer holder.mu.Unlock()
	holder.set.ClearAll()
	state := holder.set.Snapshot()
	s.persist(sessionId, state)
	s.notifier.Broadcast(sessionId, state)
	return state
}

func (s *ComparisonService) Details(propertyIds []string) ([]property.Summary, features.Matrix, error) {
	if len(propertyIds) == 0 || len(propertyIds) > comparison.MaxItems {
		return nil, features.Matrix{}, customerror.ErrBadInput
	}
	for _, id := range propertyIds {
		if id == "" {
			return nil, features.Matrix{}, customerror.ErrBadInput
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	properties, err := s.propertyRepo.GetProperties(ctx, propertyIds)
	if err != nil {
		customErr := err.(customerror.CustomError)
		customErr.AppendModule("ComparisonService.Details")
		return nil, features.Matrix{}, customErr
	}
	if len(properties) == 0 {
		return nil, features.Matrix{}, pgx.ErrNoRows
	}
	return properties, features.Compare(properties), nil
}
