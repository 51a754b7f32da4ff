package service

import (
	"context"
	"time"

	"homepick/pkg/comparison"
	"homepick/pkg/customerror"
	"homepick/pkg/property"
	"homepick/pkg/sharelink"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fakePropertyRepo struct {
	properties map[string]property.Summary
	fail       bool
}

func newFakePropertyRepo(props ...property.Summary) *fakePropertyRepo {
	repo := &fakePropertyRepo{properties: map[string]property.Summary{}}
	for _, p := range props {
		repo.properties[p.Id] = p
	}
	return repo
}

func (r *fakePropertyRepo) CreateTables(ctx context.Context) error {
	return nil
}

func (r *fakePropertyRepo) GetProperty(ctx context.Context, id string) (*property.Summary, error) {
	if r.fail {
		return nil, customerror.NewError("fakePropertyRepo.GetProperty", "", "boom")
	}
	p, ok := r.properties[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (r *fakePropertyRepo) GetProperties(ctx context.Context, ids []string) ([]property.Summary, error) {
	if r.fail {
		return nil, customerror.NewError("fakePropertyRepo.GetProperties", "", "boom")
	}
	out := []property.Summary{}
	for _, id := range ids {
		if p, ok := r.properties[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeComparisonRepo struct {
	snapshots map[uuid.UUID][]property.Summary
	failSave  bool
	failRead  bool
	saves     int
}

func newFakeComparisonRepo() *fakeComparisonRepo {
	return &fakeComparisonRepo{snapshots: map[uuid.UUID][]property.Summary{}}
}

func (r *fakeComparisonRepo) CreateTables(ctx context.Context) error {
	return nil
}

func (r *fakeComparisonRepo) GetSnapshot(ctx context.Context, sessionId uuid.UUID) ([]property.Summary, error) {
	if r.failRead {
		return nil, customerror.NewError("fakeComparisonRepo.GetSnapshot", "", "corrupt")
	}
	summaries, ok := r.snapshots[sessionId]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return summaries, nil
}

func (r *fakeComparisonRepo) SaveSnapshot(ctx context.Context, sessionId uuid.UUID, summaries []property.Summary) error {
	if r.failSave {
		return customerror.NewError("fakeComparisonRepo.SaveSnapshot", "", "quota")
	}
	r.saves++
	stored := make([]property.Summary, len(summaries))
	copy(stored, summaries)
	r.snapshots[sessionId] = stored
	return nil
}

func (r *fakeComparisonRepo) DeleteSnapshot(ctx context.Context, sessionId uuid.UUID) error {
	if r.failSave {
		return customerror.NewError("fakeComparisonRepo.DeleteSnapshot", "", "quota")
	}
	delete(r.snapshots, sessionId)
	return nil
}

type fakeShareRepo struct {
	shares        map[string]*sharelink.SharedComparison
	rejectInserts int
	inserts       int
}

func newFakeShareRepo() *fakeShareRepo {
	return &fakeShareRepo{shares: map[string]*sharelink.SharedComparison{}}
}

func (r *fakeShareRepo) CreateTables(ctx context.Context) error {
	return nil
}

func (r *fakeShareRepo) InsertShare(ctx context.Context, share *sharelink.SharedComparison) error {
	r.inserts++
	if r.rejectInserts > 0 {
		r.rejectInserts--
		return customerror.ErrCodeTaken
	}
	if _, ok := r.shares[share.Code]; ok {
		return customerror.ErrCodeTaken
	}
	stored := *share
	r.shares[share.Code] = &stored
	return nil
}

func (r *fakeShareRepo) GetShare(ctx context.Context, code string) (*sharelink.SharedComparison, error) {
	share, ok := r.shares[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return share, nil
}

func (r *fakeShareRepo) DeleteShare(ctx context.Context, code string) error {
	delete(r.shares, code)
	return nil
}

func (r *fakeShareRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	var removed int64
	for code, share := range r.shares {
		if share.ExpiresAt.Before(before) {
			delete(r.shares, code)
			removed++
		}
	}
	return removed, nil
}

type fakeNotifier struct {
	broadcasts []comparison.State
}

func (n *fakeNotifier) Connect(ctx *gin.Context, sessionId uuid.UUID, state comparison.State) error {
	return nil
}

func (n *fakeNotifier) Broadcast(sessionId uuid.UUID, state comparison.State) {
	n.broadcasts = append(n.broadcasts, state)
}

func (n *fakeNotifier) KeepAlive() {}
