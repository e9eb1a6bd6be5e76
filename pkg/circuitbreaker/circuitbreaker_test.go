package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func fail(context.Context) error { return errBoom }
func ok(context.Context) error   { return nil }

func trip(t *testing.T, cb *CircuitBreaker, failures int) {
	t.Helper()
	for i := 0; i < failures; i++ {
		err := cb.Execute(context.Background(), fail)
		require.ErrorIs(t, err, errBoom)
	}
}

func TestExecute_StaysClosedUnderThreshold(t *testing.T) {
	cb := New("test", WithFailureThreshold(3))

	trip(t, cb, 2)
	assert.Equal(t, StateClosed, cb.State())

	// A success resets the failure count.
	require.NoError(t, cb.Execute(context.Background(), ok))
	trip(t, cb, 2)
	assert.Equal(t, StateClosed, cb.State())
}

func TestExecute_OpensAtThreshold(t *testing.T) {
	cb := New("test", WithFailureThreshold(3))

	trip(t, cb, 3)
	assert.Equal(t, StateOpen, cb.State())

	err := cb.Execute(context.Background(), ok)
	assert.ErrorIs(t, err, ErrCircuitOpen, "open circuit must fail fast without calling fn")
}

func TestExecute_HalfOpenProbeClosesCircuit(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithSuccessThreshold(2),
		WithTimeout(10*time.Millisecond),
	)

	trip(t, cb, 1)
	assert.Equal(t, StateOpen, cb.State())

	time.Sleep(15 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(context.Background(), ok))
	require.NoError(t, cb.Execute(context.Background(), ok))
	assert.Equal(t, StateClosed, cb.State())
}

func TestExecute_FailedProbeReopens(t *testing.T) {
	cb := New("test", WithFailureThreshold(1), WithTimeout(10*time.Millisecond))

	trip(t, cb, 1)
	time.Sleep(15 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.ErrorIs(t, cb.Execute(context.Background(), fail), errBoom)
	assert.Equal(t, StateOpen, cb.State())
}

func TestExecute_IsFailurePredicate(t *testing.T) {
	benign := errors.New("not found")
	cb := New("test",
		WithFailureThreshold(1),
		WithIsFailure(func(err error) bool { return !errors.Is(err, benign) }),
	)

	err := cb.Execute(context.Background(), func(context.Context) error { return benign })
	require.ErrorIs(t, err, benign)
	assert.Equal(t, StateClosed, cb.State(), "benign errors must not trip the breaker")
}

func TestExecute_NotifiesStateChanges(t *testing.T) {
	var transitions []string
	cb := New("test",
		WithFailureThreshold(1),
		WithTimeout(time.Hour),
		WithOnStateChange(func(name string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		}),
	)

	trip(t, cb, 1)
	assert.Equal(t, []string{"closed->open"}, transitions)
}
