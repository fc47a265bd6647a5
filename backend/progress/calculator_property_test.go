package progress

import (
	"testing"

	"pgregory.net/rapid"
)

func genTaskType(t *rapid.T) TaskType {
	return rapid.SampledFrom(TaskTypes).Draw(t, "taskType")
}

func genSignal(t *rapid.T) Signal {
	v := rapid.Float64Range(0, 1e6).Draw(t, "value")
	done := rapid.Bool().Draw(t, "completed")
	return Signal{PagesRead: &v, MinutesWatched: &v, LessonsCompleted: &v, Completed: &done}
}

func TestProperty_ProgressAlwaysClamped(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		taskType := genTaskType(t)
		sig := genSignal(t)
		total := rapid.Float64Range(0, 5000).Draw(t, "totalUnits")
		prev := rapid.Float64Range(0, 1e6).Draw(t, "previous")
		estimated := rapid.Float64Range(0, 5000).Draw(t, "estimatedTime")

		res, err := Compute(taskType, sig, total, prev, estimated)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Progress < 0 || res.Progress > 100 {
			t.Fatalf("progress %d out of range", res.Progress)
		}
		if res.SpecificProgress < 0 {
			t.Fatalf("negative specific progress %v", res.SpecificProgress)
		}
	})
}

func TestProperty_BookReadingsAreCumulative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := float64(rapid.IntRange(1, 2000).Draw(t, "totalUnits"))
		readings := rapid.SliceOfN(rapid.IntRange(0, 300), 1, 10).Draw(t, "pages")

		specific := 0.0
		var last Result
		sum := 0.0
		for _, pages := range readings {
			p := float64(pages)
			sum += p
			res, err := Compute(Book, Signal{PagesRead: &p}, total, specific, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			specific = res.SpecificProgress
			last = res
		}

		once, err := Compute(Book, Signal{PagesRead: &sum}, total, 0, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if once.Progress != last.Progress {
			t.Fatalf("incremental progress %d != single update %d", last.Progress, once.Progress)
		}
	})
}

func TestProperty_ArticleHasNoPartialValues(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		done := rapid.Bool().Draw(t, "completed")
		prev := float64(rapid.IntRange(0, 1).Draw(t, "previous"))
		res, err := Compute(Article, Signal{Completed: &done}, 1, prev, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if done && res.Progress != 100 {
			t.Fatalf("completed article at %d", res.Progress)
		}
		if !done && res.Progress != 0 {
			t.Fatalf("unread article at %d", res.Progress)
		}
	})
}
