package production

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udyog/backend/internal/domain/shared"
)

func TestBatchName(t *testing.T) {
	date := time.Date(2026, 3, 7, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, "20260307001", BatchName(date, 1))
	assert.Equal(t, "20260307042", BatchName(date, 42))
	// Sequences past three digits widen rather than wrap.
	assert.Equal(t, "202603071000", BatchName(date, 1000))
}

func TestNewBatchValidation(t *testing.T) {
	tenantID := uuid.New()
	machineID := uuid.New()
	date := time.Now()

	b, err := NewBatch(tenantID, machineID, date, ShiftDay)
	require.NoError(t, err)
	assert.Equal(t, machineID, b.MachineID)
	assert.Empty(t, b.Mixers)
	assert.Empty(t, b.Productions)

	var domainErr *shared.DomainError

	_, err = NewBatch(uuid.Nil, machineID, date, ShiftDay)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TENANT", domainErr.Code)

	_, err = NewBatch(tenantID, uuid.Nil, date, ShiftDay)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_MACHINE", domainErr.Code)

	_, err = NewBatch(tenantID, machineID, time.Time{}, ShiftNight)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_DATE", domainErr.Code)

	_, err = NewBatch(tenantID, machineID, date, Shift("EVENING"))
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_SHIFT", domainErr.Code)
}

func TestShiftIsValid(t *testing.T) {
	assert.True(t, ShiftDay.IsValid())
	assert.True(t, ShiftNight.IsValid())
	assert.False(t, Shift("").IsValid())
	assert.False(t, Shift("day").IsValid())
}

func TestNewMachine(t *testing.T) {
	m, err := NewMachine(uuid.New(), "  Extruder 2  ")
	require.NoError(t, err)
	assert.Equal(t, "Extruder 2", m.Name)

	_, err = NewMachine(uuid.New(), "   ")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_NAME", domainErr.Code)
}
