package service_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/eld-logbook/internal/domain"
	"github.com/pkordes/eld-logbook/internal/service"
)

var (
	driverID = uuid.MustParse("7f1c2b9e-4a53-4d1e-9a0b-3c6f0e2d8a11")
	now      = time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
)

// hosFixture wires an HOSService over mocks with a fixed clock.
type hosFixture struct {
	drivers    *mockDriverRepo
	duty       *mockDutyLogRepo
	violations *mockViolationRepo
	dedupe     bool
	loc        *time.Location
}

func newHOSFixture() *hosFixture {
	return &hosFixture{
		drivers:    knownDriver(driverID),
		duty:       &mockDutyLogRepo{},
		violations: &mockViolationRepo{},
		dedupe:     true,
	}
}

func (f *hosFixture) service() *service.HOSService {
	return service.NewHOSService(f.drivers, f.duty, f.violations, service.HOSOptions{
		Location:         f.loc,
		Now:              func() time.Time { return now },
		DedupeViolations: f.dedupe,
	})
}

// drivingSince06 is a log with one open Driving interval starting at 06:00,
// twelve hours before now: over the driving limit and overdue for a break.
func drivingSince06(context.Context, uuid.UUID, time.Time) ([]domain.DutyInterval, error) {
	return []domain.DutyInterval{{
		DriverID:  driverID,
		Status:    domain.Driving,
		StartTime: time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC),
	}}, nil
}

func emptyHistory(context.Context, uuid.UUID, time.Time) ([]domain.DutyInterval, error) {
	return nil, nil
}

func TestHOSService_LogDutyChange_Valid(t *testing.T) {
	f := newHOSFixture()
	var appended domain.DutyChange
	f.duty.appendFn = func(_ context.Context, c domain.DutyChange) (domain.DutyInterval, error) {
		appended = c
		return domain.DutyInterval{ID: uuid.New(), DriverID: c.DriverID, Status: c.Status, StartTime: c.At, Location: c.Location}, nil
	}
	f.duty.history = emptyHistory

	interval, status, err := f.service().LogDutyChange(context.Background(), domain.DutyChange{
		DriverID: driverID,
		Status:   domain.OnDutyNotDriving,
		Location: "  Macon, GA ",
	})

	require.NoError(t, err)
	assert.Equal(t, now, appended.At, "zero At defaults to now")
	assert.Equal(t, "Macon, GA", appended.Location)
	assert.Equal(t, domain.OnDutyNotDriving, interval.Status)
	assert.Equal(t, driverID, status.DriverID)
	assert.Empty(t, status.Violations)
}

func TestHOSService_LogDutyChange_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		change domain.DutyChange
		want   error
	}{
		{
			name:   "unknown status",
			change: domain.DutyChange{DriverID: driverID, Status: domain.DutyStatus(9)},
			want:   domain.ErrInvalidInput,
		},
		{
			name:   "future timestamp",
			change: domain.DutyChange{DriverID: driverID, Status: domain.Driving, At: now.Add(time.Minute)},
			want:   domain.ErrValidation,
		},
		{
			name:   "negative odometer",
			change: domain.DutyChange{DriverID: driverID, Status: domain.Driving, Odometer: -1},
			want:   domain.ErrValidation,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// appendFn is unset: reaching the repo would panic.
			f := newHOSFixture()

			_, _, err := f.service().LogDutyChange(context.Background(), tc.change)

			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestHOSService_LogDutyChange_PropagatesRepoError(t *testing.T) {
	f := newHOSFixture()
	f.duty.appendFn = func(context.Context, domain.DutyChange) (domain.DutyInterval, error) {
		return domain.DutyInterval{}, domain.ErrNotFound
	}

	_, _, err := f.service().LogDutyChange(context.Background(), domain.DutyChange{DriverID: driverID, Status: domain.Driving})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHOSService_Status_RecordsViolations(t *testing.T) {
	f := newHOSFixture()
	f.duty.history = drivingSince06
	var created []domain.Violation
	f.violations.createOnce = func(_ context.Context, v domain.Violation, _ time.Time) (domain.Violation, bool, error) {
		v.ID = uuid.New()
		created = append(created, v)
		return v, true, nil
	}

	status, err := f.service().Status(context.Background(), driverID, nil)

	require.NoError(t, err)
	assert.False(t, status.CanDrive)
	require.Len(t, created, 2)
	assert.Equal(t, domain.DrivingLimitExceeded, created[0].Kind)
	assert.Equal(t, domain.BreakRequired, created[1].Kind)
	assert.Equal(t, now, created[0].DetectedAt)
	require.Len(t, status.Violations, 2)
	assert.NotEqual(t, uuid.Nil, status.Violations[0].ID)
}

func TestHOSService_Status_DeduplicatesOngoingBreach(t *testing.T) {
	f := newHOSFixture()
	f.duty.history = drivingSince06
	var since []time.Time
	f.violations.createOnce = func(_ context.Context, v domain.Violation, s time.Time) (domain.Violation, bool, error) {
		since = append(since, s)
		return v, false, nil
	}

	status, err := f.service().Status(context.Background(), driverID, nil)

	require.NoError(t, err)
	require.Len(t, status.Violations, 2, "suppressed breaches are still reported")
	assert.Equal(t, uuid.Nil, status.Violations[0].ID)
	// No 10-hour reset in the log, so the duty period falls back to now-14h.
	assert.Equal(t, now.Add(-14*time.Hour), since[0])
}

func TestHOSService_Status_DedupeDisabledAlwaysWrites(t *testing.T) {
	f := newHOSFixture()
	f.dedupe = false
	f.duty.history = drivingSince06
	writes := 0
	f.violations.create = func(_ context.Context, v domain.Violation) (domain.Violation, error) {
		writes++
		return v, nil
	}

	_, err := f.service().Status(context.Background(), driverID, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, writes)
}

func TestHOSService_Status_HistoricalIsReadOnly(t *testing.T) {
	f := newHOSFixture()
	var until time.Time
	f.duty.history = func(ctx context.Context, id uuid.UUID, u time.Time) ([]domain.DutyInterval, error) {
		until = u
		return drivingSince06(ctx, id, u)
	}
	past := now.Add(-30 * time.Minute)

	status, err := f.service().Status(context.Background(), driverID, &past)

	require.NoError(t, err)
	assert.Equal(t, past, until)
	assert.Equal(t, past, status.At)
	assert.Len(t, status.Violations, 2)
}

func TestHOSService_Status_UnknownDriver(t *testing.T) {
	f := newHOSFixture()

	_, err := f.service().Status(context.Background(), uuid.New(), nil)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHOSService_CanDriveFor(t *testing.T) {
	t.Run("fresh driver", func(t *testing.T) {
		f := newHOSFixture()
		f.duty.history = emptyHistory

		ok, reasons, status, err := f.service().CanDriveFor(context.Background(), driverID, 5)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, reasons)
		assert.Equal(t, 11.0, status.RemainingDrive)
	})

	t.Run("over the limit", func(t *testing.T) {
		f := newHOSFixture()
		f.duty.history = drivingSince06
		f.violations.createOnce = func(_ context.Context, v domain.Violation, _ time.Time) (domain.Violation, bool, error) {
			return v, false, nil
		}

		ok, reasons, _, err := f.service().CanDriveFor(context.Background(), driverID, 1)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Contains(t, reasons, "30-minute break required before driving")
	})

	for name, hours := range map[string]float64{
		"negative hours": -1,
		"NaN hours":      math.NaN(),
		"infinite hours": math.Inf(1),
	} {
		t.Run(name, func(t *testing.T) {
			f := newHOSFixture()
			// history is unset: evaluating would panic.

			_, _, _, err := f.service().CanDriveFor(context.Background(), driverID, hours)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestHOSService_Status_FutureInstantRejected(t *testing.T) {
	f := newHOSFixture()
	future := now.Add(time.Minute)

	_, err := f.service().Status(context.Background(), driverID, &future)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHOSService_Status_AtNowIsPersisted(t *testing.T) {
	f := newHOSFixture()
	f.duty.history = drivingSince06
	writes := 0
	f.violations.createOnce = func(_ context.Context, v domain.Violation, _ time.Time) (domain.Violation, bool, error) {
		writes++
		return v, true, nil
	}
	at := now

	status, err := f.service().Status(context.Background(), driverID, &at)

	require.NoError(t, err)
	assert.Equal(t, now, status.At)
	assert.Equal(t, 2, writes)
}

func TestHOSService_DailyLog_UsesLocalMidnight(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	f := newHOSFixture()
	f.loc = chicago
	var from, to time.Time
	f.duty.listOverlapping = func(_ context.Context, _ uuid.UUID, a, b time.Time) ([]domain.DutyInterval, error) {
		from, to = a, b
		return nil, nil
	}
	f.violations.listBetween = func(context.Context, uuid.UUID, time.Time, time.Time) ([]domain.Violation, error) {
		return nil, nil
	}

	day, err := f.service().DailyLog(context.Background(), driverID, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, chicago)
	assert.True(t, want.Equal(from), "from = %s", from)
	assert.True(t, want.AddDate(0, 0, 1).Equal(to), "to = %s", to)
	assert.Len(t, day.Slots, 96)
}

func TestHOSService_Logbook(t *testing.T) {
	f := newHOSFixture()
	var since time.Time
	f.duty.listStartedSince = func(_ context.Context, _ uuid.UUID, s time.Time) ([]domain.DutyInterval, error) {
		since = s
		return nil, nil
	}

	got, err := f.service().Logbook(context.Background(), driverID, 8)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, now.AddDate(0, 0, -8), since)
}

func TestHOSService_NegativeDays(t *testing.T) {
	svc := newHOSFixture().service()

	_, err := svc.Logbook(context.Background(), driverID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Violations(context.Background(), driverID, -3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHOSService_Violations_RepoError(t *testing.T) {
	f := newHOSFixture()
	boom := errors.New("connection reset")
	f.violations.listSince = func(context.Context, uuid.UUID, time.Time) ([]domain.Violation, error) {
		return nil, boom
	}

	_, err := f.service().Violations(context.Background(), driverID, 30)

	assert.ErrorIs(t, err, boom)
}
