package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLoggerCapturesEntries(t *testing.T) {
	m := &MockLogger{}

	m.Info("Loaded ledger", Field{Key: FieldCount, Value: 42})
	m.Warn("Falling back")

	require.Len(t, m.Entries, 2)
	assert.Equal(t, "INFO", m.Entries[0].Level)
	assert.Equal(t, "Loaded ledger", m.Entries[0].Message)
	require.Len(t, m.Entries[0].Fields, 1)
	assert.Equal(t, FieldCount, m.Entries[0].Fields[0].Key)
	assert.Equal(t, 42, m.Entries[0].Fields[0].Value)

	assert.True(t, m.HasMessage("Falling back"))
	assert.False(t, m.HasMessage("never logged"))
}

func TestMockLoggerWithError(t *testing.T) {
	m := &MockLogger{}
	cause := errors.New("boom")

	derived, ok := m.WithError(cause).(*MockLogger)
	require.True(t, ok)
	derived.Error("Training failed", Field{Key: FieldCategory, Value: "Groceries"})

	require.Len(t, derived.Entries, 1)
	assert.Equal(t, cause, derived.Entries[0].Error)
	assert.Equal(t, "ERROR", derived.Entries[0].Level)
}

func TestMockLoggerWithFields(t *testing.T) {
	m := &MockLogger{}

	derived, ok := m.WithFields(
		Field{Key: FieldCategory, Value: "Transport"},
		Field{Key: FieldStatus, Value: "modeled"},
	).(*MockLogger)
	require.True(t, ok)
	derived.Debug("Forecast complete", Field{Key: FieldHorizon, Value: 3})

	require.Len(t, derived.Entries, 1)
	assert.Len(t, derived.Entries[0].Fields, 3)
}
