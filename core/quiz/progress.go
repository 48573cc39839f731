package quiz

import (
	"fmt"

	"github.com/clinigoal/backoffice/core"
)

// Buckets holding the persisted completed-items sets: flat identifier lists,
// append-only, deduplicated by membership check.
const (
	BucketWatchedVideos    = "watchedVideos"
	BucketCompletedNotes   = "completedNotes"
	BucketCompletedQuizzes = "completedQuizzes"
)

// Progress is a read-only snapshot of the three completed-items sets.
type Progress struct {
	WatchedVideos    []string `json:"watchedVideos"`
	CompletedNotes   []string `json:"completedNotes"`
	CompletedQuizzes []string `json:"completedQuizzes"`
}

// Tracker maintains the persisted completed-items sets. All operations are
// best-effort: a read failure yields an empty set, a write failure is logged
// and the action skipped.
type Tracker struct {
	store  core.KeyValueStore
	logger core.Logger
}

func NewTracker(store core.KeyValueStore, logger core.Logger) *Tracker {
	return &Tracker{store: store, logger: logger}
}

func (t *Tracker) MarkVideoWatched(id string)  { t.mark(BucketWatchedVideos, id) }
func (t *Tracker) MarkNoteCompleted(id string) { t.mark(BucketCompletedNotes, id) }
func (t *Tracker) MarkQuizPassed(id string)    { t.mark(BucketCompletedQuizzes, id) }

func (t *Tracker) HasWatchedVideo(id string) bool  { return t.has(BucketWatchedVideos, id) }
func (t *Tracker) HasCompletedNote(id string) bool { return t.has(BucketCompletedNotes, id) }
func (t *Tracker) HasPassedQuiz(id string) bool    { return t.has(BucketCompletedQuizzes, id) }

func (t *Tracker) Snapshot() Progress {
	return Progress{
		WatchedVideos:    t.ids(BucketWatchedVideos),
		CompletedNotes:   t.ids(BucketCompletedNotes),
		CompletedQuizzes: t.ids(BucketCompletedQuizzes),
	}
}

func (t *Tracker) ids(bucket string) []string {
	var ids []string
	if err := t.store.Get(bucket, &ids); err != nil {
		if err != core.ErrKeyNotFound {
			t.logger.Warn(fmt.Sprintf("progress: reading %s: %v", bucket, err))
		}
		return nil
	}
	return ids
}

func (t *Tracker) has(bucket, id string) bool {
	for _, existing := range t.ids(bucket) {
		if existing == id {
			return true
		}
	}
	return false
}

// mark inserts id into the bucket's set; idempotent, checked before insert.
func (t *Tracker) mark(bucket, id string) {
	if id == "" {
		return
	}
	ids := t.ids(bucket)
	for _, existing := range ids {
		if existing == id {
			return
		}
	}
	if err := t.store.Set(bucket, append(ids, id)); err != nil {
		t.logger.Error(fmt.Sprintf("progress: writing %s: %v", bucket, err))
	}
}
