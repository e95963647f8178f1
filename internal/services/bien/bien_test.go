package bien_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/juntimo/juntimo-backend/internal/models"
	"github.com/juntimo/juntimo-backend/internal/services/bien"
	"github.com/juntimo/juntimo-backend/internal/storage/repository"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) CreateBien(ctx context.Context, b models.Bien) (string, error) {
	args := m.Called(ctx, b)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) GetBien(ctx context.Context, id string) (*models.Bien, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bien), args.Error(1)
}

func (m *RepoMock) ListBiens(ctx context.Context) ([]*models.Bien, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bien), args.Error(1)
}

func (m *RepoMock) UpdateBien(ctx context.Context, b models.Bien, id string) (int, error) {
	args := m.Called(ctx, b, id)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) RemoveBien(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func testBien() models.Bien {
	return models.Bien{
		Libelle:     "Villa Duplex Cocody",
		Description: "Villa de 5 pièces",
		TypeBien:    "villa",
		Proprietaire: models.Proprietaire{
			Nom:    "Traoré",
			Prenom: "Moussa",
		},
	}
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		wantID     string
		wantErr    bool
	}{
		{
			name: "successful create",
			setupMocks: func(r *RepoMock) {
				r.On("CreateBien", mock.Anything, testBien()).Return("bien-1", nil).Once()
			},
			wantID: "bien-1",
		},
		{
			name: "repository error",
			setupMocks: func(r *RepoMock) {
				r.On("CreateBien", mock.Anything, testBien()).Return("", errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			service := bien.New(repo, testLogger())

			id, err := service.Create(context.Background(), testBien())

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Get(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name: "successful get",
			setupMocks: func(r *RepoMock) {
				b := testBien()
				b.ID = "bien-1"
				r.On("GetBien", mock.Anything, "bien-1").Return(&b, nil).Once()
			},
		},
		{
			name: "missing bien maps to ErrNotFound",
			setupMocks: func(r *RepoMock) {
				r.On("GetBien", mock.Anything, "bien-1").Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: bien.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			service := bien.New(repo, testLogger())

			got, err := service.Get(context.Background(), "bien-1")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, "bien-1", got.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Update(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name: "successful update",
			setupMocks: func(r *RepoMock) {
				r.On("UpdateBien", mock.Anything, testBien(), "bien-1").Return(1, nil).Once()
			},
		},
		{
			name: "zero rows affected maps to ErrNotFound",
			setupMocks: func(r *RepoMock) {
				r.On("UpdateBien", mock.Anything, testBien(), "bien-1").Return(0, nil).Once()
			},
			wantErr: bien.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			service := bien.New(repo, testLogger())

			err := service.Update(context.Background(), testBien(), "bien-1")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Remove(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name: "successful remove",
			setupMocks: func(r *RepoMock) {
				r.On("RemoveBien", mock.Anything, "bien-1").Return(1, nil).Once()
			},
		},
		{
			name: "zero rows affected maps to ErrNotFound",
			setupMocks: func(r *RepoMock) {
				r.On("RemoveBien", mock.Anything, "bien-1").Return(0, nil).Once()
			},
			wantErr: bien.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			service := bien.New(repo, testLogger())

			err := service.Remove(context.Background(), "bien-1")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}
