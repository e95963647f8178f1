package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juntimo/juntimo-backend/internal/models"
)

func TestStorage_CreateUser(t *testing.T) {
	tests := []struct {
		name    string
		user    models.User
		wantErr error
		setup   func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name: "successful create user",
			user: models.User{
				Nom:          "Kouassi",
				Prenom:       "Jean",
				Email:        "jean.kouassi@example.com",
				PasswordHash: "hashedpassword",
				Tel:          "+2250700000000",
				Role:         models.RoleParticipant,
			},
			setup: func(_ *testing.T, _ *TestDataFactory) {},
		},
		{
			name: "duplicate email returns ErrDuplicate",
			user: models.User{
				Nom:          "Kouassi",
				Prenom:       "Jean",
				Email:        "taken@example.com",
				PasswordHash: "hashedpassword",
				Role:         models.RoleParticipant,
			},
			wantErr: ErrDuplicate,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, NewTestUID(), "Diallo", "Awa", "taken@example.com", "hash", "participant")
			},
		},
		{
			name: "duplicate email with different case returns ErrDuplicate",
			user: models.User{
				Nom:          "Kouassi",
				Prenom:       "Jean",
				Email:        "Taken@Example.COM",
				PasswordHash: "hashedpassword",
				Role:         models.RoleParticipant,
			},
			wantErr: ErrDuplicate,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, NewTestUID(), "Diallo", "Awa", "taken@example.com", "hash", "participant")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			uid, err := storage.CreateUser(context.Background(), tt.user)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, uid)

				verification := NewTestVerification(storage)
				verification.VerifyUserExists(t, uid)
			}
		})
	}
}

func TestStorage_GetUserByEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr error
		setup   func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name:  "email stored lowercase found with mixed case query",
			email: "Jean.Kouassi@Example.COM",
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, NewTestUID(), "Kouassi", "Jean",
					"jean.kouassi@example.com", "hashedpassword", "participant")
			},
		},
		{
			name:    "non-existing email returns ErrNotFound",
			email:   "nobody@example.com",
			wantErr: ErrNotFound,
			setup:   func(_ *testing.T, _ *TestDataFactory) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			got, err := storage.GetUserByEmail(context.Background(), tt.email)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, "jean.kouassi@example.com", got.Email)
				assert.Equal(t, "Kouassi", got.Nom)
				assert.Equal(t, "participant", got.Role)
			}
		})
	}
}

func TestStorage_BienLifecycle(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	bien := models.Bien{
		Libelle:     "Villa Duplex Cocody",
		Description: "Villa de 5 pièces avec piscine",
		TypeBien:    "villa",
		Proprietaire: models.Proprietaire{
			Nom:       "Traoré",
			Prenom:    "Moussa",
			Telephone: "+2250500000000",
		},
		Preuves: []models.Preuve{
			{Libelle: "titre foncier", Document: "https://docs.example.com/tf-001.pdf"},
		},
	}

	id, err := storage.CreateBien(ctx, bien)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := storage.GetBien(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, bien.Libelle, got.Libelle)
	assert.Equal(t, bien.TypeBien, got.TypeBien)
	assert.Equal(t, bien.Proprietaire, got.Proprietaire)
	assert.Equal(t, bien.Preuves, got.Preuves)

	all, err := storage.ListBiens(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	got.Libelle = "Villa Duplex Cocody Riviera"
	n, err := storage.UpdateBien(ctx, *got, id)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	updated, err := storage.GetBien(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Villa Duplex Cocody Riviera", updated.Libelle)

	n, err = storage.RemoveBien(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	verification := NewTestVerification(storage)
	verification.VerifyBienDeleted(t, id)

	_, err = storage.GetBien(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_CreateProjet(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	bienID := factory.CreateBien(t, "Immeuble R+3", "Immeuble de rapport", "immeuble")

	data := GetTestProjetData()
	projet := models.Projet{
		BienID:               bienID,
		Titre:                data.Titre,
		Description:          "Projet de co-investissement",
		Secteur:              data.Secteur,
		Statut:               models.ProjetActif,
		ValeurTotaleProjet:   data.ValeurTotale,
		Duree:                data.Duree,
		CommissionImmoInvest: 0.01,
		Penalite:             0.25,
		DateDebut:            data.DateDebut,
		BeneficesAnnuels: []models.BeneficeAnnuel{
			{Annee: 2027, Montant: 8400},
		},
	}

	id, err := storage.CreateProjet(ctx, projet)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := storage.GetProjet(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, data.Titre, got.Titre)
	assert.Equal(t, bienID, got.BienID)
	assert.Equal(t, data.ValeurTotale, got.ValeurTotaleProjet)
	assert.Equal(t, projet.BeneficesAnnuels, got.BeneficesAnnuels)

	// Производные поля всегда стартуют с нуля, что бы ни пришло на вставку.
	assert.Equal(t, 0, got.ParticipantsActuels)
	assert.Zero(t, got.MensualiteParParticipant)
	assert.Zero(t, got.MensualiteTotaleAPayer)
}

func TestStorage_GetProjet_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	got, err := storage.GetProjet(context.Background(), NewTestUID())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, got)
}

func TestStorage_RemoveProjet_DeletesMemberships(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	data := GetTestProjetData()

	bienID := factory.CreateBien(t, "Villa", "Villa de test", "villa")
	projetID := factory.CreateProjet(t, bienID, data.Titre, data.Secteur,
		data.ValeurTotale, data.Duree, data.DateDebut)
	userUID := NewTestUID()
	factory.CreateUser(t, userUID, "Kouassi", "Jean", "jean@example.com", "hash", "participant")
	factory.CreateGroupe(t, projetID, userUID, "actif")

	n, err := storage.RemoveProjet(ctx, projetID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var count int
	err = storage.DB.QueryRow("SELECT COUNT(*) FROM groupes WHERE projet_id = $1", projetID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStorage_CreateGroupe(t *testing.T) {
	tests := []struct {
		name          string
		existingState string // статус уже существующей записи членства, если есть
		wantErr       error
	}{
		{
			name: "successful create membership",
		},
		{
			name:          "second active membership returns ErrDuplicate",
			existingState: "actif",
			wantErr:       ErrDuplicate,
		},
		{
			name:          "inactive membership does not block new active one",
			existingState: "inactif",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			ctx := context.Background()
			factory := NewTestDataFactory(storage)
			data := GetTestProjetData()

			bienID := factory.CreateBien(t, "Villa", "Villa de test", "villa")
			projetID := factory.CreateProjet(t, bienID, data.Titre, data.Secteur,
				data.ValeurTotale, data.Duree, data.DateDebut)
			userUID := NewTestUID()
			factory.CreateUser(t, userUID, "Kouassi", "Jean", "jean@example.com", "hash", "participant")

			if tt.existingState != "" {
				factory.CreateGroupe(t, projetID, userUID, tt.existingState)
			}

			got, err := storage.CreateGroupe(ctx, projetID, userUID)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, projetID, got.ProjetID)
				assert.Equal(t, userUID, got.ParticipantID)
				assert.Equal(t, models.GroupeActif, got.Statut)
			}
		})
	}
}

func TestStorage_FindActiveGroupe(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	data := GetTestProjetData()

	bienID := factory.CreateBien(t, "Villa", "Villa de test", "villa")
	projetID := factory.CreateProjet(t, bienID, data.Titre, data.Secteur,
		data.ValeurTotale, data.Duree, data.DateDebut)
	memberUID := NewTestUID()
	inactiveUID := NewTestUID()
	factory.CreateUser(t, memberUID, "Kouassi", "Jean", "jean@example.com", "hash", "participant")
	factory.CreateUser(t, inactiveUID, "Diallo", "Awa", "awa@example.com", "hash", "participant")
	factory.CreateGroupe(t, projetID, memberUID, "actif")
	factory.CreateGroupe(t, projetID, inactiveUID, "inactif")

	got, found, err := storage.FindActiveGroupe(ctx, projetID, memberUID)
	require.NoError(t, err)
	assert.True(t, found)
	require.NotNil(t, got)
	assert.Equal(t, memberUID, got.ParticipantID)

	// Неактивная запись не считается членством.
	got, found, err = storage.FindActiveGroupe(ctx, projetID, inactiveUID)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)

	count, err := storage.CountActiveGroupes(ctx, projetID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStorage_IncrementParticipantsAndRecalc(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	verification := NewTestVerification(storage)

	bienID := factory.CreateBien(t, "Villa", "Villa de test", "villa")
	// 120000 на 24 месяца: один участник платит 5000, двое — по 2500.
	projetID := factory.CreateProjet(t, bienID, "Résidence Les Palmiers", "Abidjan Cocody",
		120000, 24, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	got, err := storage.IncrementParticipantsAndRecalc(ctx, projetID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ParticipantsActuels)
	assert.InDelta(t, 5000.0, got.MensualiteParParticipant, 0.0001)
	assert.InDelta(t, 5000.0, got.MensualiteTotaleAPayer, 0.0001)

	got, err = storage.IncrementParticipantsAndRecalc(ctx, projetID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ParticipantsActuels)
	assert.InDelta(t, 2500.0, got.MensualiteParParticipant, 0.0001)
	assert.InDelta(t, 5000.0, got.MensualiteTotaleAPayer, 0.0001)

	verification.VerifyProjetDerivedFields(t, projetID, 2, 2500.0, 5000.0)
}

func TestStorage_IncrementParticipantsAndRecalc_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	got, err := storage.IncrementParticipantsAndRecalc(context.Background(), NewTestUID())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, got)
}

func TestCheckDatabaseReady(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	err := CheckDatabaseReady(storage)
	assert.NoError(t, err)
}
