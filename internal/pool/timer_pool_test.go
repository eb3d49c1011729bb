package pool

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerPool(t *testing.T) {
	assert := assert.New(t)

	t.Run("Get and Put", func(t *testing.T) {
		timer1 := GetTimer(1 * time.Second)
		assert.NotNil(timer1)

		PutTimer(timer1)

		timer2 := GetTimer(20 * time.Millisecond)
		assert.NotNil(timer2)

		<-timer2.C // Wait for the timer to expire
		PutTimer(timer2)
	})

	t.Run("Stopped timer does not fire", func(t *testing.T) {
		timer1 := GetTimer(50 * time.Millisecond)
		assert.True(timer1.Stop())

		timer2 := GetTimer(100 * time.Millisecond)
		assert.NotSame(timer1, timer2)

		select {
		case <-timer1.C:
			t.Error("timer1 should be stopped and not fire")
		case <-timer2.C:
		}
	})

	t.Run("Concurrency", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				timer := GetTimer(10 * time.Millisecond)
				defer PutTimer(timer)
				<-timer.C
			}()
		}
		wg.Wait()
	})
}

func TestAfter(t *testing.T) {
	done := make(chan struct{})
	assert.False(t, After(10*time.Millisecond, done), "timeout expected")

	close(done)
	assert.True(t, After(time.Second, done), "closed channel must win")
}
