package store

//go:generate mockgen -source=kv.go -destination=mocks/mocks.go -package=mocks KV

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"kycdesk/internal/entity/models"
	"kycdesk/internal/entity/store/mocks"
	"kycdesk/pkg/platform/sentinel"
)

// =============================================================================
// Repository Test Suite
// =============================================================================
// The repository owns the two storage keys and the collection codec. Tests
// cover the decode rules for unreadable values, prefixing, and error
// propagation from the backend.

type RepositorySuite struct {
	suite.Suite
	ctrl *gomock.Controller
	kv   *mocks.MockKV
	ctx  context.Context
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.kv = mocks.NewMockKV(s.ctrl)
	s.ctx = context.Background()
}

func (s *RepositorySuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RepositorySuite) TestLoadEmptyStore() {
	s.kv.EXPECT().Get(gomock.Any(), EntitiesKey).Return("", sentinel.ErrNotFound)
	s.kv.EXPECT().Get(gomock.Any(), SelectedKey).Return("", sentinel.ErrNotFound)

	snap, err := NewRepository(s.kv).Load(s.ctx)
	s.Require().NoError(err)
	s.False(snap.HasEntities)
	s.Empty(snap.SelectedID)
}

func (s *RepositorySuite) TestLoadStoredCollection() {
	s.kv.EXPECT().Get(gomock.Any(), EntitiesKey).
		Return(`[{"id":"ent_9","name":"Acme","banking":{"swift":"ACMEGB22"}}]`, nil)
	s.kv.EXPECT().Get(gomock.Any(), SelectedKey).Return("ent_9", nil)

	snap, err := NewRepository(s.kv).Load(s.ctx)
	s.Require().NoError(err)
	s.True(snap.HasEntities)
	s.Require().Len(snap.Entities, 1)
	s.Equal("Acme", snap.Entities[0].Name)
	s.Equal("ACMEGB22", snap.Entities[0].Banking.SWIFT)
	s.Equal("ent_9", snap.SelectedID)
}

func (s *RepositorySuite) TestLoadEmptyListIsAValidCollection() {
	s.kv.EXPECT().Get(gomock.Any(), EntitiesKey).Return(`[]`, nil)
	s.kv.EXPECT().Get(gomock.Any(), SelectedKey).Return("", sentinel.ErrNotFound)

	snap, err := NewRepository(s.kv).Load(s.ctx)
	s.Require().NoError(err)
	s.True(snap.HasEntities)
	s.NotNil(snap.Entities)
	s.Empty(snap.Entities)
}

func (s *RepositorySuite) TestLoadDiscardsUnreadableCollections() {
	for name, raw := range map[string]string{
		"not json":     `{{{`,
		"null":         `null`,
		"object":       `{"id":"ent_1"}`,
		"string":       `"ent_1"`,
		"list of nums": `[1,2]`,
	} {
		s.Run(name, func() {
			discarded := 0
			s.kv.EXPECT().Get(gomock.Any(), EntitiesKey).Return(raw, nil)
			s.kv.EXPECT().Get(gomock.Any(), SelectedKey).Return("ent_1", nil)

			repo := NewRepository(s.kv, WithMalformedHook(func() { discarded++ }))
			snap, err := repo.Load(s.ctx)
			s.Require().NoError(err)
			s.False(snap.HasEntities)
			s.Equal("ent_1", snap.SelectedID, "selection is still read")
			s.Equal(1, discarded)
		})
	}
}

func (s *RepositorySuite) TestLoadTreatsCorruptBackendDocumentAsAbsent() {
	corrupt := errors.Join(sentinel.ErrMalformed, errors.New("unexpected end of JSON input"))
	s.kv.EXPECT().Get(gomock.Any(), EntitiesKey).Return("", corrupt)
	s.kv.EXPECT().Get(gomock.Any(), SelectedKey).Return("", corrupt)

	discarded := 0
	snap, err := NewRepository(s.kv, WithMalformedHook(func() { discarded++ })).Load(s.ctx)
	s.Require().NoError(err)
	s.False(snap.HasEntities)
	s.Empty(snap.SelectedID)
	s.Equal(1, discarded)
}

func (s *RepositorySuite) TestLoadBackendError() {
	boom := errors.New("connection refused")
	s.kv.EXPECT().Get(gomock.Any(), EntitiesKey).Return("", boom)

	_, err := NewRepository(s.kv).Load(s.ctx)
	s.ErrorIs(err, boom)
}

func (s *RepositorySuite) TestKeyPrefix() {
	repo := NewRepository(s.kv, WithKeyPrefix("team-a:"))

	s.kv.EXPECT().Set(gomock.Any(), "team-a:kyc_selected_entity", "ent_2").Return(nil)
	s.Require().NoError(repo.SaveSelected(s.ctx, "ent_2"))

	s.kv.EXPECT().Set(gomock.Any(), "team-a:kyc_entities", "[]").Return(nil)
	s.Require().NoError(repo.SaveEntities(s.ctx, nil))
}

func (s *RepositorySuite) TestSaveEntitiesEncodesStoredFormat() {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	entities := []models.Entity{models.NewBlank("ent_x", at)}

	s.kv.EXPECT().Set(gomock.Any(), EntitiesKey, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, value string) error {
			s.JSONEq(`[{"id":"ent_x","name":"New Entity","banking":{"settlementCurrency":"USD"},"updatedAt":"2026-03-01T09:30:00Z"}]`, value)
			return nil
		})

	s.Require().NoError(NewRepository(s.kv).SaveEntities(s.ctx, entities))
}

func (s *RepositorySuite) TestSaveErrorsAreWrapped() {
	boom := errors.New("disk full")
	s.kv.EXPECT().Set(gomock.Any(), SelectedKey, "ent_1").Return(boom)

	err := NewRepository(s.kv).SaveSelected(s.ctx, "ent_1")
	s.ErrorIs(err, boom)
	s.Contains(err.Error(), "save selection")
}

func (s *RepositorySuite) TestRoundTripThroughMemory() {
	repo := NewRepository(NewInMemory())
	entities := models.Samples(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	s.Require().NoError(repo.SaveEntities(s.ctx, entities))
	s.Require().NoError(repo.SaveSelected(s.ctx, models.SampleSunriseID))

	snap, err := repo.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(entities, snap.Entities)
	s.Equal(models.SampleSunriseID, snap.SelectedID)
}
