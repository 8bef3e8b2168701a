package service

import (
	"context"
	"sort"
	"time"

	"aurora/internal/models"
)

// LeaderboardEntry is one row of a room's ranking.
type LeaderboardEntry struct {
	Rank          int       `json:"rank"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name,omitempty"`
	AttemptNumber int       `json:"attempt_number"`
	Score         int       `json:"score"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

type LeaderboardService struct {
	attempts AttemptStore
	users    UserDirectory
}

func NewLeaderboardService(attempts AttemptStore, users UserDirectory) *LeaderboardService {
	return &LeaderboardService{attempts: attempts, users: users}
}

// Rank derives the room's leaderboard from finalized attempts: score
// descending, earlier finish first on ties. Nothing is persisted, so
// repeated calls against unchanged data return the same order.
func (s *LeaderboardService) Rank(ctx context.Context, roomID string) ([]LeaderboardEntry, error) {
	attempts, err := s.attempts.ListFinalizedByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	// Re-sorted here so the ordering does not depend on store behavior.
	sort.SliceStable(attempts, func(i, j int) bool {
		if attempts[i].Score != attempts[j].Score {
			return attempts[i].Score > attempts[j].Score
		}
		return submittedAt(attempts[i]).Before(submittedAt(attempts[j]))
	})

	entries := make([]LeaderboardEntry, 0, len(attempts))
	for i, a := range attempts {
		entry := LeaderboardEntry{
			Rank:          i + 1,
			UserID:        a.UserID,
			AttemptNumber: a.AttemptNumber,
			Score:         a.Score,
		}
		if a.SubmittedAt != nil {
			entry.SubmittedAt = *a.SubmittedAt
		}
		if s.users != nil {
			if u, err := s.users.FindByID(ctx, a.UserID); err == nil {
				entry.Name = u.Name
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func submittedAt(a models.Attempt) time.Time {
	if a.SubmittedAt == nil {
		return time.Time{}
	}
	return *a.SubmittedAt
}
