package exchange

import (
	"math/rand"
	"time"

	"gorm.io/gorm"

	groupctl "github.com/giftring/giftring/internal/db/controller/group"
	"github.com/giftring/giftring/internal/db/models"
)

// maxShuffleAttempts bounds the rejection resampling before falling back to a
// deterministic cyclic shift.
const maxShuffleAttempts = 100

// ComputeMatches draws a fresh random derangement over the member set and
// replaces the stored assignment. It is not stable across calls, every
// invocation reshuffles.
func (s *Service) ComputeMatches(groupID, actingAdminID string) (map[string]MatchView, error) {
	defer s.lockGroup(groupID)()

	g, err := s.loadActive(groupID)
	if err != nil {
		return nil, err
	}

	if !g.IsAdmin(actingAdminID) {
		return nil, ErrForbidden
	}

	if !g.Settings.EnableMatching {
		return nil, ErrMatchingDisabled
	}

	if g.MemberCount() < 2 {
		return nil, ErrInsufficientMembers
	}

	givers := make([]string, 0, g.MemberCount())
	for i := range g.Members {
		givers = append(givers, g.Members[i].UserID)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // shuffle, not crypto
	receivers := derange(givers, rng)

	matches := make([]models.Match, 0, len(givers))
	for i := range givers {
		matches = append(matches, models.Match{
			GroupID:    groupID,
			GiverID:    givers[i],
			ReceiverID: receivers[i],
		})
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Save writes every column from g, including a possibly stale flag.
		// ReplaceMatches clears the flag and must run after it.
		if err := groupctl.Save(tx, g); err != nil {
			return err
		}

		return groupctl.ReplaceMatches(tx, groupID, matches)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.MatchesComputed(g, len(matches))

	assignment := make(map[string]MatchView, len(givers))
	for i := range givers {
		assignment[givers[i]] = MatchView{MatchedUserID: receivers[i], IsGiver: true}
	}

	return assignment, nil
}

// derange returns a receiver for every id such that nobody receives from
// themselves. It resamples uniformly random permutations until one is fixed
// point free and falls back to a cyclic shift after maxShuffleAttempts, which
// is fixed point free for any list of length >= 2.
func derange(ids []string, rng *rand.Rand) []string {
	n := len(ids)
	receivers := make([]string, n)

	for attempt := 0; attempt < maxShuffleAttempts; attempt++ {
		perm := rng.Perm(n)

		ok := true

		for i, p := range perm {
			if p == i {
				ok = false
				break
			}
		}

		if ok {
			for i, p := range perm {
				receivers[i] = ids[p]
			}

			return receivers
		}
	}

	return cyclicShift(ids)
}

// cyclicShift maps every id to its successor. Fixed point free for any list
// of length >= 2, used as the deterministic fallback.
func cyclicShift(ids []string) []string {
	n := len(ids)
	receivers := make([]string, n)

	for i := range ids {
		receivers[i] = ids[(i+1)%n]
	}

	return receivers
}
