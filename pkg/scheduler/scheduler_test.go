package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddJobRunsOnInterval(t *testing.T) {
	s := New()
	defer s.StopAll()

	var calls int32
	s.AddJob("job-1", func(args any) { atomic.AddInt32(&calls, 1) }, 20*time.Millisecond, nil)

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 3 }, time.Second, 5*time.Millisecond)
}

func TestAddJobPassesArgsThrough(t *testing.T) {
	s := New()
	defer s.StopAll()

	received := make(chan any, 1)
	s.AddJob("job-1", func(args any) {
		select {
		case received <- args:
		default:
		}
	}, 10*time.Millisecond, "payload")

	select {
	case got := <-received:
		assert.Equal(t, "payload", got)
	case <-time.After(time.Second):
		t.Fatal("job never ran")
	}
}

func TestAddJobWithSameIDReplacesExisting(t *testing.T) {
	s := New()
	defer s.StopAll()

	var oldCalls, newCalls int32
	s.AddJob("job-1", func(args any) { atomic.AddInt32(&oldCalls, 1) }, 10*time.Millisecond, nil)
	time.Sleep(25 * time.Millisecond)

	s.AddJob("job-1", func(args any) { atomic.AddInt32(&newCalls, 1) }, 10*time.Millisecond, nil)
	snapshotOld := atomic.LoadInt32(&oldCalls)

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&newCalls) >= 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, snapshotOld, atomic.LoadInt32(&oldCalls), "replaced job must stop ticking")
}

func TestRemoveJobStopsItFromRunningAgain(t *testing.T) {
	s := New()
	defer s.StopAll()

	var calls int32
	s.AddJob("job-1", func(args any) { atomic.AddInt32(&calls, 1) }, 10*time.Millisecond, nil)
	time.Sleep(25 * time.Millisecond)

	s.RemoveJob("job-1")
	snapshot := atomic.LoadInt32(&calls)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, snapshot, atomic.LoadInt32(&calls))
}

func TestRemoveJobOnAbsentIDIsNoOp(t *testing.T) {
	s := New()
	assert.NotPanics(t, func() { s.RemoveJob("never-added") })
}

func TestStatusReportsRunningAndNextRunTime(t *testing.T) {
	s := New()
	defer s.StopAll()

	before := time.Now()
	s.AddJob("job-1", func(args any) {}, 50*time.Millisecond, nil)

	status, ok := s.Status("job-1")
	require.True(t, ok)
	assert.False(t, status.Running)
	assert.True(t, status.NextRunTime.After(before))
}

func TestStatusOnAbsentIDReturnsFalse(t *testing.T) {
	s := New()
	_, ok := s.Status("never-added")
	assert.False(t, ok)
}

func TestLongRunningJobDoesNotBlockOtherJobs(t *testing.T) {
	s := New()
	defer s.StopAll()

	var fastCalls int32
	s.AddJob("slow", func(args any) { time.Sleep(200 * time.Millisecond) }, 10*time.Millisecond, nil)
	s.AddJob("fast", func(args any) { atomic.AddInt32(&fastCalls, 1) }, 10*time.Millisecond, nil)

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&fastCalls) >= 3 }, time.Second, 5*time.Millisecond)
}

func TestJobPanicIsRecoveredAndJobKeepsRunning(t *testing.T) {
	s := New()
	defer s.StopAll()

	var calls int32
	s.AddJob("job-1", func(args any) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			panic("boom")
		}
	}, 10*time.Millisecond, nil)

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 2 }, time.Second, 5*time.Millisecond)
}
