package exchange

import (
	groupctl "github.com/giftring/giftring/internal/db/controller/group"
	"github.com/giftring/giftring/internal/db/models"
)

// Participants projects the member list of a group for presentation. Reads
// work on archived and deleted groups too.
func (s *Service) Participants(groupID string) ([]GroupParticipant, error) {
	g, err := groupctl.GetByID(s.db, groupID)
	if err != nil {
		return nil, err
	}

	matched := make(map[string]bool, len(g.Matches)*2)
	for i := range g.Matches {
		matched[g.Matches[i].GiverID] = true
		matched[g.Matches[i].ReceiverID] = true
	}

	participants := make([]GroupParticipant, 0, len(g.Members))
	for i := range g.Members {
		m := &g.Members[i]
		participants = append(participants, GroupParticipant{
			UserID:    m.UserID,
			FirstName: m.User.FirstName,
			LastName:  m.User.LastName,
			Nickname:  m.User.Nickname,
			Avatar:    m.User.Avatar,
			Role:      m.Role,
			JoinedAt:  m.JoinedAt,
			IsMatch:   matched[m.UserID],
		})
	}

	return participants, nil
}

// MembershipsForUser projects all memberships of a user including the
// giver side assignment where one exists.
func (s *Service) MembershipsForUser(userID string) ([]GroupMembership, error) {
	groups, err := groupctl.ListForUser(s.db, userID)
	if err != nil {
		return nil, err
	}

	memberships := make([]GroupMembership, 0, len(groups))

	for i := range groups {
		g := &groups[i]

		m := g.Member(userID)
		if m == nil {
			continue
		}

		memberships = append(memberships, GroupMembership{
			Group:    *g,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
			Match:    matchFor(g, userID),
		})
	}

	return memberships, nil
}

// matchFor derives the membership match view from the stored edges. The giver
// side edge wins, the mirrored receiver side is used when the user only
// appears as a receiver.
func matchFor(g *models.Group, userID string) *MatchView {
	for i := range g.Matches {
		if g.Matches[i].GiverID == userID {
			return &MatchView{MatchedUserID: g.Matches[i].ReceiverID, IsGiver: true}
		}
	}

	for i := range g.Matches {
		if g.Matches[i].ReceiverID == userID {
			return &MatchView{MatchedUserID: g.Matches[i].GiverID, IsGiver: false}
		}
	}

	return nil
}
