package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"member-portal-api/models"
)

func TestNextStatusEdges(t *testing.T) {
	cases := []struct {
		name    string
		current models.ReviewStatus
		action  ReviewAction
		comment string
		want    models.ReviewStatus
		wantErr error
	}{
		{"submit from draft", models.StatusDraft, ActionSubmit, "", models.StatusSubmitted, nil},
		{"approve from submitted", models.StatusSubmitted, ActionApprove, "", models.StatusApproved, nil},
		{"approve with comment", models.StatusSubmitted, ActionApprove, "looks good", models.StatusApproved, nil},
		{"reject with comment", models.StatusSubmitted, ActionReject, "missing documents", models.StatusRejected, nil},
		{"request revision with comment", models.StatusSubmitted, ActionRequestRevision, "fix the address", models.StatusRevisionRequested, nil},
		{"resubmit after revision", models.StatusRevisionRequested, ActionResubmit, "", models.StatusSubmitted, nil},
		{"cancel from submitted", models.StatusSubmitted, ActionCancel, "", models.StatusCancelled, nil},

		{"reject without comment", models.StatusSubmitted, ActionReject, "", "", ErrCommentRequired},
		{"reject with blank comment", models.StatusSubmitted, ActionReject, "   ", "", ErrCommentRequired},
		{"request revision without comment", models.StatusSubmitted, ActionRequestRevision, "", "", ErrCommentRequired},
		// The comment guard fires before the state guard.
		{"reject draft without comment", models.StatusDraft, ActionReject, "", "", ErrCommentRequired},

		{"submit twice", models.StatusSubmitted, ActionSubmit, "", "", ErrInvalidTransition},
		{"approve a draft", models.StatusDraft, ActionApprove, "", "", ErrInvalidTransition},
		{"approve twice", models.StatusApproved, ActionApprove, "", "", ErrInvalidTransition},
		{"reject an approved entity", models.StatusApproved, ActionReject, "too late", "", ErrInvalidTransition},
		{"cancel a draft", models.StatusDraft, ActionCancel, "", "", ErrInvalidTransition},
		{"cancel after approval", models.StatusApproved, ActionCancel, "", "", ErrInvalidTransition},
		{"resubmit from draft", models.StatusDraft, ActionResubmit, "", "", ErrInvalidTransition},
		{"resubmit after rejection", models.StatusRejected, ActionResubmit, "", "", ErrInvalidTransition},
		{"approve a cancelled entity", models.StatusCancelled, ActionApprove, "", "", ErrInvalidTransition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextStatus(tc.current, tc.action, tc.comment)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestNextStatusUnknownAction(t *testing.T) {
	if _, err := NextStatus(models.StatusDraft, ReviewAction("archive"), ""); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestTransitionApprove(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT registration_id AS id, status, user_id FROM `member_registrations`"),
			columns: []string{"id", "status", "user_id"},
			rows:    [][]driver.Value{{int64(7), "submitted", int64(42)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `member_registrations` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `review_status_history`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `audit_logs`"),
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

	svc := NewReviewService(db)
	result, err := svc.Transition(&TransitionInput{
		EntityType: EntityMemberRegistration,
		EntityID:   7,
		Action:     ActionApprove,
		ActorID:    99,
	})
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	if result.OldStatus != models.StatusSubmitted {
		t.Fatalf("expected old status submitted, got %s", result.OldStatus)
	}
	if result.NewStatus != models.StatusApproved {
		t.Fatalf("expected new status approved, got %s", result.NewStatus)
	}
	if result.OwnerID != 42 {
		t.Fatalf("expected owner 42, got %d", result.OwnerID)
	}
	if result.ReviewedAt == nil {
		t.Fatal("expected reviewed_at to be stamped on approval")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestTransitionSubmitOwnerScoped(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT record_id AS id, status, user_id FROM `performance_records` WHERE \\(record_id = .+\\) AND user_id = "),
			columns: []string{"id", "status", "user_id"},
			rows:    [][]driver.Value{{int64(3), "draft", int64(42)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `performance_records` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `review_status_history`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `audit_logs`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	owner := uint(42)
	svc := NewReviewService(db)
	result, err := svc.Transition(&TransitionInput{
		EntityType: EntityPerformanceRecord,
		EntityID:   3,
		Action:     ActionSubmit,
		ActorID:    42,
		OwnerID:    &owner,
	})
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	if result.NewStatus != models.StatusSubmitted {
		t.Fatalf("expected submitted, got %s", result.NewStatus)
	}
	// Submission is an owner action, not a review decision.
	if result.ReviewedAt != nil {
		t.Fatal("submit must not stamp reviewed_at")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestTransitionCancelStampsReviewedAt(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT record_id AS id, status, user_id FROM `performance_records`"),
			columns: []string{"id", "status", "user_id"},
			rows:    [][]driver.Value{{int64(5), "submitted", int64(42)}},
		},
		{
			// Cancellation ends the review, so the update must carry
			// reviewed_at alongside the status change.
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `performance_records` SET `reviewed_at`"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `review_status_history`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `audit_logs`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	owner := uint(42)
	svc := NewReviewService(db)
	result, err := svc.Transition(&TransitionInput{
		EntityType: EntityPerformanceRecord,
		EntityID:   5,
		Action:     ActionCancel,
		ActorID:    42,
		OwnerID:    &owner,
	})
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	if result.NewStatus != models.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", result.NewStatus)
	}
	if result.ReviewedAt == nil {
		t.Fatal("cancelling a submitted record must stamp reviewed_at")
	}

	// No notification row: the owner withdrew it themselves.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestTransitionRejectRequiresComment(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT application_id AS id, status, user_id FROM `project_applications`"),
			columns: []string{"id", "status", "user_id"},
			rows:    [][]driver.Value{{int64(11), "submitted", int64(8)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewService(db)
	_, err := svc.Transition(&TransitionInput{
		EntityType: EntityProjectApplication,
		EntityID:   11,
		Action:     ActionReject,
		Comment:    "   ",
		ActorID:    99,
	})
	if !errors.Is(err, ErrCommentRequired) {
		t.Fatalf("expected ErrCommentRequired, got %v", err)
	}

	// No UPDATE, history, audit or notification may run.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestTransitionLosesRace(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT registration_id AS id, status, user_id FROM `member_registrations`"),
			columns: []string{"id", "status", "user_id"},
			rows:    [][]driver.Value{{int64(7), "submitted", int64(42)}},
		},
		{
			// A concurrent admin already moved the row; the guarded update
			// matches nothing.
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `member_registrations` SET"),
			result:  scriptedResult{rowsAffected: 0},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewService(db)
	_, err := svc.Transition(&TransitionInput{
		EntityType: EntityMemberRegistration,
		EntityID:   7,
		Action:     ActionApprove,
		ActorID:    99,
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestTransitionEntityNotFound(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT registration_id AS id, status, user_id FROM `member_registrations`"),
			columns: []string{"id", "status", "user_id"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewService(db)
	_, err := svc.Transition(&TransitionInput{
		EntityType: EntityMemberRegistration,
		EntityID:   404,
		Action:     ActionApprove,
		ActorID:    99,
	})
	if !errors.Is(err, ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestTransitionUnknownEntityType(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewReviewService(db)
	_, err := svc.Transition(&TransitionInput{
		EntityType: "invoice",
		EntityID:   1,
		Action:     ActionApprove,
		ActorID:    99,
	})
	if !errors.Is(err, ErrUnknownEntityType) {
		t.Fatalf("expected ErrUnknownEntityType, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
