package quiz

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"

	"github.com/clinigoal/backoffice/core"
	"github.com/clinigoal/backoffice/storage/kvstore/dummy"
	"github.com/clinigoal/backoffice/tests"
)

func TestTracker_mark(t *testing.T) {
	store := dummystore.Open()
	tracker := NewTracker(store, testutil.NewLogger())

	if tracker.HasWatchedVideo("v1") {
		t.Error("empty set reported membership")
	}

	tracker.MarkVideoWatched("v1")
	tracker.MarkVideoWatched("v1") // idempotent
	tracker.MarkVideoWatched("v2")
	tracker.MarkVideoWatched("") // ignored
	tracker.MarkNoteCompleted("n1")
	tracker.MarkQuizPassed("quiz_1")

	if !tracker.HasWatchedVideo("v1") || !tracker.HasCompletedNote("n1") || !tracker.HasPassedQuiz("quiz_1") {
		t.Error("recorded items not reported")
	}

	got := tracker.Snapshot()
	want := Progress{
		WatchedVideos:    []string{"v1", "v2"},
		CompletedNotes:   []string{"n1"},
		CompletedQuizzes: []string{"quiz_1"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}
}

func TestTracker_corruptBucket(t *testing.T) {
	store := dummystore.Open()
	tracker := NewTracker(store, testutil.NewLogger())

	store.SetRaw(BucketWatchedVideos, []byte(`{oops`))

	// unreadable set degrades to empty
	if tracker.HasWatchedVideo("v1") {
		t.Error("corrupt bucket reported membership")
	}
	if ids := tracker.Snapshot().WatchedVideos; ids != nil {
		t.Errorf("corrupt bucket snapshot = %v", ids)
	}

	// marking replaces the corrupt set rather than failing
	tracker.MarkVideoWatched("v1")
	if !tracker.HasWatchedVideo("v1") {
		t.Error("mark after corruption was lost")
	}
}

// failingStore rejects all writes.
type failingStore struct {
	core.KeyValueStore
}

func (failingStore) Set(string, interface{}) error { return errors.New("disk full") }

func TestTracker_writeFailure(t *testing.T) {
	store := failingStore{dummystore.Open()}
	tracker := NewTracker(store, testutil.NewLogger())

	// best-effort: the failure is swallowed, nothing is recorded
	tracker.MarkQuizPassed("quiz_1")
	if tracker.HasPassedQuiz("quiz_1") {
		t.Error("failed write reported membership")
	}
}
