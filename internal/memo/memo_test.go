package memo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type session struct{ id int }

func TestValueRunsFactoryOnce(t *testing.T) {
	calls := 0
	value := New(func() *session {
		calls++
		return &session{id: calls}
	})

	assert.False(t, value.Done())

	first := value.Get()
	for i := 0; i < 10; i++ {
		assert.Same(t, first, value.Get())
	}
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, first.id)
	assert.True(t, value.Done())
}

func TestValueKeepsZeroResult(t *testing.T) {
	calls := 0
	value := New(func() *session {
		calls++
		return nil
	})

	assert.Nil(t, value.Get())
	assert.Nil(t, value.Get())
	assert.Equal(t, 1, calls)
}

func TestResultRetriesAfterFailure(t *testing.T) {
	calls := 0
	result := NewResult(func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("radio not ready")
		}
		return "192.168.1.20", nil
	})

	_, err := result.Get()
	require.Error(t, err)
	assert.False(t, result.Done())

	_, err = result.Get()
	require.Error(t, err)

	got, err := result.Get()
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.20", got)
	assert.True(t, result.Done())

	got, err = result.Get()
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.20", got)
	assert.Equal(t, 3, calls)
}
