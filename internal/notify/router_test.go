package notify

import (
	"testing"

	"github.com/sportsmatch/backend/internal/models"
)

func TestMatchStatusChangeNotifiesBothParticipants(t *testing.T) {
	got := Route(Event{
		Kind:       MatchStatusChange,
		Name:       "completed",
		MatchID:    "m1",
		CreatorID:  "alice",
		OpponentID: "bob",
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[0].UserID.String != "alice" || got[1].UserID.String != "bob" {
		t.Errorf("wrong recipients: %s, %s", got[0].UserID.String, got[1].UserID.String)
	}
	if got[0].Type != TypeMatchUpdate || got[0].Message != "Match completed" {
		t.Errorf("unexpected notification: %+v", got[0])
	}
	if got[0].Metadata["match_id"] != "m1" {
		t.Errorf("metadata missing match id: %v", got[0].Metadata)
	}
}

func TestMatchStatusChangeSkipsAbsentOpponent(t *testing.T) {
	got := Route(Event{Kind: MatchStatusChange, Name: "expired", MatchID: "m1", CreatorID: "alice"})
	if len(got) != 1 || got[0].UserID.String != "alice" {
		t.Errorf("expected a single creator notification, got %+v", got)
	}
}

func TestFriendActivityNotifiesNamedUser(t *testing.T) {
	got := Route(Event{Kind: FriendActivity, Name: "went online", UserID: "carol"})
	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	if got[0].UserID.String != "carol" || got[0].Type != TypeFriendUpdate {
		t.Errorf("unexpected notification: %+v", got[0])
	}
}

func TestLeaderboardChangeBroadcasts(t *testing.T) {
	got := Route(Event{Kind: LeaderboardChange, Name: "weekly reset"})
	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	if got[0].UserID.Valid {
		t.Errorf("broadcast must have a null recipient, got %s", got[0].UserID.String)
	}
	if got[0].Type != TypeSystem {
		t.Errorf("expected type %s, got %s", TypeSystem, got[0].Type)
	}
}

func TestAchievementGrantedNotifiesAchiever(t *testing.T) {
	rule := models.Achievement{ID: "winner-5", Name: "On a Roll"}
	got := Route(Event{Kind: AchievementGranted, UserID: "dave", Achievement: &rule})
	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	if got[0].Message != "You earned On a Roll" {
		t.Errorf("unexpected message: %s", got[0].Message)
	}
	if got[0].Metadata["achievement_id"] != "winner-5" {
		t.Errorf("metadata missing achievement id: %v", got[0].Metadata)
	}
}

func TestUnknownEventShapeProducesNothing(t *testing.T) {
	if got := Route(Event{Kind: "tournament_started", Name: "x"}); got != nil {
		t.Errorf("unknown event must produce no notifications, got %+v", got)
	}
}
