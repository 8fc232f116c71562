package attendance

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateCheckInError(t *testing.T) {
	at := time.Date(2024, 3, 4, 8, 3, 0, 0, time.UTC)
	err := fmt.Errorf("check in: %w", &DuplicateCheckInError{
		Existing: Attendance{ID: "a1", Status: StatusPresent, CheckIn: &at},
		At:       &at,
	})

	assert.True(t, errors.Is(err, ErrDuplicateCheckIn))

	var dup *DuplicateCheckInError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "a1", dup.Existing.ID)
	assert.Equal(t, "you already checked in today at 08:03", dup.Error())
}

func TestDuplicateCheckInError_AbsenceRow(t *testing.T) {
	err := &DuplicateCheckInError{Existing: Attendance{Status: StatusAbsent}}
	assert.Equal(t, "attendance for today is already recorded as absent", err.Error())
}

func TestWorkingDuration(t *testing.T) {
	in := time.Date(2024, 3, 4, 8, 20, 0, 0, time.UTC)
	out := time.Date(2024, 3, 4, 17, 0, 30, 0, time.UTC)

	open := Attendance{CheckIn: &in}
	assert.Nil(t, open.WorkingDuration())

	closed := Attendance{CheckIn: &in, CheckOut: &out}
	d := closed.WorkingDuration()
	require.NotNil(t, d)
	assert.Equal(t, "8h 40m", d.String())
	assert.InDelta(t, 520.5, d.Minutes(), 0.0001)
}
