package clock_test

import (
	"testing"
	"time"

	"github.com/myrjola/lastalibi/internal/clock"
	"github.com/stretchr/testify/require"
)

func TestManualAdvance(t *testing.T) {
	start := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)
	c := clock.NewManual(start)

	var fired []string
	c.AfterFunc(10*time.Second, func() { fired = append(fired, "first") })
	c.AfterFunc(15*time.Second, func() { fired = append(fired, "second") })

	c.Advance(9 * time.Second)
	require.Empty(t, fired)

	c.Advance(1 * time.Second)
	require.Equal(t, []string{"first"}, fired)
	require.Equal(t, start.Add(10*time.Second), c.Now())

	c.Advance(10 * time.Second)
	require.Equal(t, []string{"first", "second"}, fired)
}

func TestManualStop(t *testing.T) {
	c := clock.NewManual(time.Unix(0, 0))

	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })
	require.True(t, timer.Stop())
	require.False(t, timer.Stop())

	c.Advance(2 * time.Second)
	require.False(t, fired)
}

func TestManualFiresInDeadlineOrder(t *testing.T) {
	c := clock.NewManual(time.Unix(0, 0))

	var fired []int
	c.AfterFunc(3*time.Second, func() { fired = append(fired, 3) })
	c.AfterFunc(1*time.Second, func() { fired = append(fired, 1) })
	c.AfterFunc(2*time.Second, func() { fired = append(fired, 2) })

	c.Advance(5 * time.Second)
	require.Equal(t, []int{1, 2, 3}, fired)
}

func TestSystemAfterFunc(t *testing.T) {
	c := clock.NewSystem()
	done := make(chan struct{})
	c.AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}
