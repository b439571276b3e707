package casecode

import (
	"testing"

	"radicado/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name      string
		prefix    string
		series    model.Series
		direction model.Direction
		year      int
		sequence  int64
		want      string
		wantErr   error
	}{
		{
			name:      "inbound technical",
			prefix:    "PTE01",
			series:    model.SeriesTechnical,
			direction: model.DirectionInbound,
			year:      2023,
			sequence:  101,
			want:      "PTE01-TEC-IN-2023-00101",
		},
		{
			name:      "outbound administrative",
			prefix:    "PTE01",
			series:    model.SeriesAdministrative,
			direction: model.DirectionOutbound,
			year:      2023,
			sequence:  46,
			want:      "PTE01-ADM-OUT-2023-00046",
		},
		{
			name:      "internal keeps INT code",
			prefix:    "PRJ9",
			series:    model.SeriesAdministrative,
			direction: model.DirectionInternal,
			year:      2024,
			sequence:  1,
			want:      "PRJ9-ADM-INT-2024-00001",
		},
		{
			name:      "sequence wider than five digits",
			prefix:    "PTE01",
			series:    model.SeriesTechnical,
			direction: model.DirectionInbound,
			year:      2025,
			sequence:  123456,
			want:      "PTE01-TEC-IN-2025-123456",
		},
		{
			name:      "zero sequence rejected",
			prefix:    "PTE01",
			series:    model.SeriesTechnical,
			direction: model.DirectionInbound,
			year:      2023,
			sequence:  0,
			wantErr:   ErrInvalidSequence,
		},
		{
			name:      "negative sequence rejected",
			prefix:    "PTE01",
			series:    model.SeriesTechnical,
			direction: model.DirectionInbound,
			year:      2023,
			sequence:  -5,
			wantErr:   ErrInvalidSequence,
		},
		{
			name:      "unknown direction rejected",
			prefix:    "PTE01",
			series:    model.SeriesTechnical,
			direction: model.Direction("SIDEWAYS"),
			year:      2023,
			sequence:  1,
			wantErr:   ErrUnknownDirection,
		},
		{
			name:      "unknown series rejected",
			prefix:    "PTE01",
			series:    model.Series("XXX"),
			direction: model.DirectionInbound,
			year:      2023,
			sequence:  1,
			wantErr:   ErrUnknownSeries,
		},
		{
			name:      "empty prefix rejected",
			prefix:    "",
			series:    model.SeriesTechnical,
			direction: model.DirectionInbound,
			year:      2023,
			sequence:  1,
			wantErr:   ErrEmptyPrefix,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.prefix, tt.series, tt.direction, tt.year, tt.sequence)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirectionCode(t *testing.T) {
	tests := []struct {
		direction model.Direction
		want      string
	}{
		{model.DirectionInbound, "IN"},
		{model.DirectionOutbound, "OUT"},
		{model.DirectionInternal, "INT"},
	}
	for _, tt := range tests {
		code, err := DirectionCode(tt.direction)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, code)
	}

	_, err := DirectionCode(model.Direction(""))
	assert.ErrorIs(t, err, ErrUnknownDirection)
}
