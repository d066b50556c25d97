package services

import (
	"strings"
	"testing"

	"member-portal-api/models"
)

func TestBuildTransitionNotification(t *testing.T) {
	cases := []struct {
		name      string
		next      models.ReviewStatus
		comment   string
		wantType  string
		wantInMsg string
	}{
		{"approved", models.StatusApproved, "", "success", "has been approved"},
		{"rejected carries the reason", models.StatusRejected, "missing documents", "error", "missing documents"},
		{"revision carries the ask", models.StatusRevisionRequested, "fix the address", "warning", "fix the address"},
		{"other states fall back to info", models.StatusCancelled, "", "info", "Cancelled"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := buildTransitionNotification(EntityMemberRegistration, "member registration", 7, 42, tc.next, tc.comment)

			if n.UserID != 42 {
				t.Fatalf("notification owner = %d, want 42", n.UserID)
			}
			if n.Type != tc.wantType {
				t.Fatalf("notification type = %q, want %q", n.Type, tc.wantType)
			}
			if !strings.Contains(n.Message, tc.wantInMsg) {
				t.Fatalf("message %q does not mention %q", n.Message, tc.wantInMsg)
			}
			if n.RelatedEntityType == nil || *n.RelatedEntityType != EntityMemberRegistration {
				t.Fatal("notification must link back to the entity")
			}
			if n.RelatedEntityID == nil || *n.RelatedEntityID != 7 {
				t.Fatal("notification must carry the entity id")
			}
			if n.IsRead {
				t.Fatal("new notifications start unread")
			}
		})
	}
}

func TestRenderMailBodyEscapesHTML(t *testing.T) {
	body := renderMailBody("Dear <b>Member</b>,", `Comment: "a & b"`)

	if strings.Contains(body, "<b>Member</b>") {
		t.Fatal("greeting was not escaped")
	}
	if !strings.Contains(body, "&lt;b&gt;Member&lt;/b&gt;") {
		t.Fatalf("expected escaped greeting in %q", body)
	}
	if !strings.Contains(body, "&amp; b") {
		t.Fatalf("expected escaped message in %q", body)
	}
}
