package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuebooking/internal/domain"
)

type stubAvailability struct {
	slots []domain.TimeRange
	dates []domain.Date
	err   error
}

func (s stubAvailability) FreeSlots(context.Context, string, domain.Date) ([]domain.TimeRange, error) {
	return s.slots, s.err
}

func (s stubAvailability) FreeDates(context.Context, string, domain.TimeRange) ([]domain.Date, error) {
	return s.dates, s.err
}

func TestRootCmd_Subcommands(t *testing.T) {
	var names []string
	for _, c := range NewRootCmd().Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "slots", "dates", "version"})
}

func TestVersionCmd(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "venuebook dev (commit=none, built=unknown)\n", out.String())
}

func TestQueryCmds_RejectBadInputBeforeConnecting(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing date flag", []string{"slots", "--venue", "v1"}},
		{"bad date", []string{"slots", "--venue", "v1", "--date", "tomorrow"}},
		{"bad start", []string{"dates", "--venue", "v1", "--start", "25:00", "--end", "26:00"}},
		{"start may not be 24:00", []string{"dates", "--venue", "v1", "--start", "24:00", "--end", "24:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewRootCmd()
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(tt.args)
			assert.Error(t, root.Execute())
		})
	}
}

func TestPrintFreeSlots(t *testing.T) {
	date := domain.NewDate(2024, time.June, 1)
	var out bytes.Buffer
	svc := stubAvailability{slots: []domain.TimeRange{{Start: 0, End: 540}, {Start: 630, End: 1440}}}
	require.NoError(t, printFreeSlots(context.Background(), &out, svc, "v1", date))
	assert.Equal(t, "Free slots for v1 on 2024-06-01:\n  00:00 - 09:00\n  10:30 - 24:00\n", out.String())

	out.Reset()
	require.NoError(t, printFreeSlots(context.Background(), &out, stubAvailability{}, "v1", date))
	assert.Equal(t, "v1 is fully booked on 2024-06-01\n", out.String())

	assert.ErrorIs(t, printFreeSlots(context.Background(), &out, stubAvailability{err: domain.ErrNotFound}, "v9", date), domain.ErrNotFound)
}

func TestPrintFreeDates(t *testing.T) {
	rng := domain.TimeRange{Start: 840, End: 900}
	var out bytes.Buffer
	svc := stubAvailability{dates: []domain.Date{domain.NewDate(2024, time.June, 2), domain.NewDate(2024, time.June, 3)}}
	require.NoError(t, printFreeDates(context.Background(), &out, svc, "v1", rng))
	assert.Equal(t, "2 free dates for v1 at 14:00 - 15:00:\n  2024-06-02\n  2024-06-03\n", out.String())

	out.Reset()
	require.NoError(t, printFreeDates(context.Background(), &out, stubAvailability{}, "v1", rng))
	assert.Equal(t, "No free dates for v1 at 14:00 - 15:00\n", out.String())

	assert.Error(t, printFreeDates(context.Background(), &out, stubAvailability{err: errors.New("boom")}, "v1", rng))
}
