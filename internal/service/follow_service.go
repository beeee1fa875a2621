package service

import (
	"context"

	"socialfeed/internal/models"
	"socialfeed/internal/observability"
	"socialfeed/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type FollowService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
}

// Profile is a user's public summary as seen by a viewer.
type Profile struct {
	User        models.UserSummary
	Counts      repository.FollowCounts
	IsFollowing bool
}

func NewFollowService(users repository.UserRepository, follows repository.FollowRepository) *FollowService {
	return &FollowService{users: users, follows: follows}
}

// ToggleFollow flips whether actorID follows targetID and returns the new state.
func (s *FollowService) ToggleFollow(ctx context.Context, actorID, targetID uint) (following bool, err error) {
	ctx, finish := observability.StartSpan(ctx, "FollowService.ToggleFollow",
		attribute.Int64("actor_id", int64(actorID)),
		attribute.Int64("target_id", int64(targetID)),
	)
	defer func() { finish(err) }()

	if actorID == targetID {
		return false, models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return false, err
	}

	following, err = s.follows.Toggle(ctx, actorID, targetID)
	if err != nil {
		return false, storeError(err, "User")
	}
	return following, nil
}

// Profile returns userID's summary and counts. IsFollowing is only set for a non-zero viewerID.
func (s *FollowService) Profile(ctx context.Context, userID, viewerID uint) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.users.Counts(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := &Profile{User: user.Summary(), Counts: counts}
	if viewerID != 0 && viewerID != userID {
		profile.IsFollowing, err = s.follows.IsFollowing(ctx, viewerID, userID)
		if err != nil {
			return nil, storeError(err, "User")
		}
	}
	return profile, nil
}
