package mensualite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerParticipant(t *testing.T) {
	tests := []struct {
		name         string
		valeurTotale float64
		dureeMois    int
		participants int
		want         float64
	}{
		{
			name:         "проект 120000 на 12 месяцев, 3 участника",
			valeurTotale: 120000,
			dureeMois:    12,
			participants: 3,
			want:         120000.0 / 12 / 3,
		},
		{
			name:         "один участник платит всё",
			valeurTotale: 60000,
			dureeMois:    6,
			participants: 1,
			want:         10000,
		},
		{
			name:         "ноль участников — ноль без деления на ноль",
			valeurTotale: 120000,
			dureeMois:    12,
			participants: 0,
			want:         0,
		},
		{
			name:         "отрицательное число участников",
			valeurTotale: 120000,
			dureeMois:    12,
			participants: -1,
			want:         0,
		},
		{
			name:         "нулевая длительность",
			valeurTotale: 120000,
			dureeMois:    0,
			participants: 3,
			want:         0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PerParticipant(tt.valeurTotale, tt.dureeMois, tt.participants)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestTotale(t *testing.T) {
	// Сумма по группе равна платежу участника, умноженному на их число.
	per := PerParticipant(120000, 12, 3)
	assert.InDelta(t, per*3, Totale(120000, 12, 3), 1e-9)
	assert.Zero(t, Totale(120000, 12, 0))
}

func TestPerParticipantIdempotent(t *testing.T) {
	first := PerParticipant(90000, 18, 4)
	for range 5 {
		assert.Equal(t, first, PerParticipant(90000, 18, 4))
	}
}
