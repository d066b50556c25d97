package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"member-portal-api/models"
)

var threadColumns = []string{
	"thread_id", "user_id", "subject", "category",
	"status", "closed_at", "create_at", "update_at", "delete_at",
}

func threadRow(id int64, status string) []driver.Value {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return []driver.Value{id, int64(5), "Question about my registration", nil, status, nil, created, created, nil}
}

func TestThreadSetStatusClose(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `message_threads`"),
			columns: threadColumns,
			rows:    [][]driver.Value{threadRow(1, "open")},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `message_threads` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `review_status_history`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `notifications`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewThreadService(db)
	thread, changed, err := svc.SetStatus(1, models.ThreadClosed, 99)
	if err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if !changed {
		t.Fatal("expected a state change")
	}
	if thread.Status != models.ThreadClosed {
		t.Fatalf("expected closed, got %s", thread.Status)
	}
	if thread.ClosedAt == nil {
		t.Fatal("expected closed_at to be stamped")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestThreadSetStatusIdempotent(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `message_threads`"),
			columns: threadColumns,
			rows:    [][]driver.Value{threadRow(1, "closed")},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewThreadService(db)
	thread, changed, err := svc.SetStatus(1, models.ThreadClosed, 99)
	if err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if changed {
		t.Fatal("closing a closed thread must be a no-op")
	}
	if thread.Status != models.ThreadClosed {
		t.Fatalf("expected closed, got %s", thread.Status)
	}

	// No update, history or notification may run.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestThreadSetStatusReopen(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `message_threads`"),
			columns: threadColumns,
			rows:    [][]driver.Value{threadRow(1, "closed")},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `message_threads` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `review_status_history`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `notifications`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewThreadService(db)
	thread, changed, err := svc.SetStatus(1, models.ThreadOpen, 99)
	if err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if !changed {
		t.Fatal("expected a state change")
	}
	if thread.ClosedAt != nil {
		t.Fatal("reopening must clear closed_at")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestThreadSetStatusRaceToSameTarget(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `message_threads`"),
			columns: threadColumns,
			rows:    [][]driver.Value{threadRow(1, "open")},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `message_threads` SET"),
			result:  scriptedResult{rowsAffected: 0},
		},
		{
			// Reload shows the other admin closed it first.
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `message_threads`"),
			columns: threadColumns,
			rows:    [][]driver.Value{threadRow(1, "closed")},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewThreadService(db)
	thread, changed, err := svc.SetStatus(1, models.ThreadClosed, 99)
	if err != nil {
		t.Fatalf("expected idempotent success, got %v", err)
	}
	if changed {
		t.Fatal("losing the race to the same target is not a change")
	}
	if thread.Status != models.ThreadClosed {
		t.Fatalf("expected closed, got %s", thread.Status)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestThreadSetStatusHistoryFailureSurfaces(t *testing.T) {
	boom := errors.New("history table unavailable")
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `message_threads`"),
			columns: threadColumns,
			rows:    [][]driver.Value{threadRow(1, "open")},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `message_threads` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `review_status_history`"),
			err:     boom,
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewThreadService(db)
	_, _, err := svc.SetStatus(1, models.ThreadClosed, 99)
	if !errors.Is(err, boom) {
		t.Fatalf("expected history error to surface, got %v", err)
	}

	// The notification insert must not run once the history write failed.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestThreadSetStatusNotFound(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `message_threads`"),
			columns: threadColumns,
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewThreadService(db)
	_, _, err := svc.SetStatus(404, models.ThreadClosed, 99)
	if !errors.Is(err, ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
