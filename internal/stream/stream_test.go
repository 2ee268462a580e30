package stream_test

import (
	"testing"

	"github.com/jpl-au/docshell/internal/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Stream Tests ---

func TestStream_DeliversInEmissionOrder(t *testing.T) {
	s := stream.New[int]()

	var got []int
	s.Subscribe(func(v int) { got = append(got, v) })

	s.Emit(1)
	s.Emit(2)
	s.Emit(3)

	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestStream_MultipleSubscribersInSubscriptionOrder(t *testing.T) {
	s := stream.New[string]()

	var got []string
	s.Subscribe(func(v string) { got = append(got, "a:"+v) })
	s.Subscribe(func(v string) { got = append(got, "b:"+v) })

	s.Emit("x")

	assert.Equal(t, []string{"a:x", "b:x"}, got)
}

func TestStream_CancelStopsDelivery(t *testing.T) {
	s := stream.New[int]()

	count := 0
	sub := s.Subscribe(func(int) { count++ })

	s.Emit(1)
	sub.Cancel()
	s.Emit(2)

	assert.Equal(t, 1, count)
	assert.False(t, sub.Active())
	assert.Equal(t, 0, s.Len())
}

func TestStream_CancelIsIdempotent(t *testing.T) {
	s := stream.New[int]()
	sub := s.Subscribe(func(int) {})

	sub.Cancel()
	sub.Cancel() // must not panic or corrupt the subscriber list

	other := s.Subscribe(func(int) {})
	assert.Equal(t, 1, s.Len())
	other.Cancel()
	assert.Equal(t, 0, s.Len())
}

func TestStream_CancelFromWithinHandler(t *testing.T) {
	s := stream.New[int]()

	count := 0
	var sub *stream.Subscription[int]
	sub = s.Subscribe(func(int) {
		count++
		sub.Cancel()
	})

	s.Emit(1)
	s.Emit(2)

	assert.Equal(t, 1, count)
}

func TestStream_EmitWithNoSubscribers(t *testing.T) {
	s := stream.New[int]()
	s.Emit(42) // no-op, must not panic
	assert.Equal(t, 0, s.Len())
}

// --- Signal Tests ---

func TestSignal_ResolveFiresDone(t *testing.T) {
	sig := stream.NewSignal()
	require.False(t, sig.Resolved())

	sig.Resolve()

	assert.True(t, sig.Resolved())
	select {
	case <-sig.Done():
	default:
		t.Fatal("Done channel not closed after Resolve")
	}
}

func TestSignal_ResolveIsIdempotent(t *testing.T) {
	sig := stream.NewSignal()
	sig.Resolve()
	sig.Resolve() // second resolve must not panic
	assert.True(t, sig.Resolved())
}

func TestSignal_LateWaiterSeesResolved(t *testing.T) {
	sig := stream.NewSignal()
	sig.Resolve()

	// A waiter arriving after resolution proceeds immediately.
	done := make(chan struct{})
	go func() {
		<-sig.Done()
		close(done)
	}()
	<-done
}

func TestSignal_UnresolvedNeverFires(t *testing.T) {
	sig := stream.NewSignal()

	select {
	case <-sig.Done():
		t.Fatal("unresolved signal fired")
	default:
	}
	assert.False(t, sig.Resolved())
}
