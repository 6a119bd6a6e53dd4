package services

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yigit/tuitiondesk/internal/app/models/dto"
	"github.com/yigit/tuitiondesk/internal/pkg/apperrors"
)

func TestAnnouncements_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.announcements.Create(ctx, &dto.CreateAnnouncementRequest{Title: "Holiday", Message: "Closed Friday", Date: "2024-08-15"})
	if err != nil {
		t.Fatal(err)
	}
	if first.Time != nil {
		t.Fatalf("time = %v, want nil", *first.Time)
	}
	second, err := f.announcements.Create(ctx, &dto.CreateAnnouncementRequest{Title: " Test ", Message: "Unit test", Date: "2024-08-20", Time: ptr("10:30")})
	if err != nil {
		t.Fatal(err)
	}
	if second.Title != "Test" || second.Time == nil || *second.Time != "10:30" {
		t.Fatalf("unexpected announcement %+v", second)
	}

	list, err := f.announcements.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("list not newest first: %+v", list)
	}

	if err := f.announcements.Delete(ctx, first.ID); err != nil {
		t.Fatal(err)
	}
	assertKind(t, f.announcements.Delete(ctx, first.ID), apperrors.ErrResourceNotFound)

	want := []publishedEvent{
		{Type: EventAnnouncementCreated, ID: first.ID},
		{Type: EventAnnouncementCreated, ID: second.ID},
		{Type: EventAnnouncementDeleted, ID: first.ID},
	}
	if diff := cmp.Diff(want, f.feed.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestAnnouncements_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for name, req := range map[string]dto.CreateAnnouncementRequest{
		"missing title": {Message: "m", Date: "2024-01-01"},
		"bad date":      {Title: "t", Message: "m", Date: "tomorrow"},
		"bad time":      {Title: "t", Message: "m", Date: "2024-01-01", Time: ptr("25:00")},
	} {
		req := req
		if _, err := f.announcements.Create(ctx, &req); err == nil {
			t.Errorf("%s: expected validation error", name)
		} else {
			assertKind(t, err, apperrors.ErrValidationFailed)
		}
	}
	if len(f.feed.events) != 0 {
		t.Fatalf("rejected announcements were published: %v", f.feed.events)
	}
}
