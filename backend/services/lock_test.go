package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	locks := newKeyedMutex()
	counter := make([]int, 2)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(key uint) {
			defer wg.Done()
			unlock := locks.Lock(key)
			defer unlock()
			counter[key]++
		}(uint(i % 2))
	}
	wg.Wait()

	assert.Equal(t, 25, counter[0])
	assert.Equal(t, 25, counter[1])
	assert.Empty(t, locks.locks, "idle keys are released")
}
