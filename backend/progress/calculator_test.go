package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }
func b(v bool) *bool       { return &v }

func TestComputeBookAccumulates(t *testing.T) {
	first, err := Compute(Book, Signal{PagesRead: f(30)}, 100, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 30, first.Progress)
	assert.Equal(t, 30.0, first.SpecificProgress)

	second, err := Compute(Book, Signal{PagesRead: f(40)}, 100, first.SpecificProgress, 0)
	require.NoError(t, err)
	assert.Equal(t, 70, second.Progress)
	assert.Equal(t, 70.0, second.SpecificProgress)
}

func TestComputeVideoOverwrites(t *testing.T) {
	first, err := Compute(Video, Signal{MinutesWatched: f(20)}, 60, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 33, first.Progress)

	second, err := Compute(Video, Signal{MinutesWatched: f(50)}, 60, first.SpecificProgress, 0)
	require.NoError(t, err)
	assert.Equal(t, 83, second.Progress)
	assert.Equal(t, 50.0, second.SpecificProgress)
}

func TestComputeCourseUsesEstimatedTime(t *testing.T) {
	// 10 chapters, 200 minutes estimated: 50 lessons is 25% of the estimate.
	res, err := Compute(Course, Signal{LessonsCompleted: f(50)}, 10, 0, 200)
	require.NoError(t, err)
	assert.Equal(t, 25, res.Progress)

	res, err = Compute(Course, Signal{LessonsCompleted: f(5)}, 10, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Progress)
}

func TestComputeArticleIsBinary(t *testing.T) {
	res, err := Compute(Article, Signal{Completed: b(true)}, 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Progress)
	assert.Equal(t, 1.0, res.SpecificProgress)

	res, err = Compute(Article, Signal{Completed: b(false)}, 1, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Progress)
	assert.Equal(t, 0.0, res.SpecificProgress)
}

func TestComputeZeroDenominator(t *testing.T) {
	res, err := Compute(Book, Signal{PagesRead: f(10)}, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Progress)
	assert.Equal(t, 10.0, res.SpecificProgress)
}

func TestComputeMissingSignalKeepsSpecificProgress(t *testing.T) {
	res, err := Compute(Video, Signal{PagesRead: f(10)}, 60, 30, 0)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Progress)
	assert.Equal(t, 30.0, res.SpecificProgress)
}

func TestComputeRejectsInvalidInput(t *testing.T) {
	_, err := Compute("Podcast", Signal{}, 1, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidTaskType)

	_, err = Compute(Book, Signal{PagesRead: f(-1)}, 100, 0, 0)
	assert.ErrorIs(t, err, ErrNegativeSignal)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, NotStarted, StatusFor(0))
	assert.Equal(t, InProgress, StatusFor(42))
	assert.Equal(t, Completed, StatusFor(100))
}

func TestTotalUnits(t *testing.T) {
	assert.Equal(t, 300, TotalUnits(Book, 300, 12))
	assert.Equal(t, 12, TotalUnits(Course, 300, 12))
	assert.Equal(t, 1, TotalUnits(Video, 300, 12))
	assert.Equal(t, 1, TotalUnits(Article, 0, 0))
}

func TestFormatTimeRemain(t *testing.T) {
	cases := map[int]string{
		0:    "0 minutes",
		1:    "1 minute",
		45:   "45 minutes",
		60:   "1 hour",
		90:   "1 hour",
		150:  "2 hours",
		1440: "1 day",
		1500: "1 day",
		4320: "3 days",
		-5:   "0 minutes",
	}
	for minutes, want := range cases {
		assert.Equal(t, want, FormatTimeRemain(minutes), "minutes=%d", minutes)
	}
}

func TestRemainingMinutes(t *testing.T) {
	assert.Equal(t, 30, RemainingMinutes(90, 60))
	assert.Equal(t, 0, RemainingMinutes(60, 90))
}
