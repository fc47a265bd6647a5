package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerService(t *testing.T) {
	s := NewSchedulerService(time.UTC)

	_, err := s.Schedule("0 0 * * *", func() {})
	assert.Error(t, err, "five-field specs are rejected")

	fired := make(chan struct{}, 1)
	_, err = s.Schedule("* * * * * *", func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}
