// Package notify delivers group event notifications.
// Real push or SMS delivery is out of scope, the default implementation
// writes structured log entries that a delivery worker could consume.
package notify

import (
	"github.com/rs/zerolog/log"

	"github.com/giftring/giftring/internal/db/models"
)

// Notifier receives group lifecycle events.
type Notifier interface {
	// MemberJoined is emitted when a user joins a group with
	// NotifyNewMembers enabled.
	MemberJoined(g *models.Group, u *models.User)

	// MatchesComputed is emitted after a new giver/receiver assignment
	// was stored for a group.
	MatchesComputed(g *models.Group, pairs int)
}

// LogNotifier implements Notifier on the global zerolog logger.
type LogNotifier struct{}

// New creates the default log based notifier.
func New() *LogNotifier {
	return &LogNotifier{}
}

// MemberJoined logs a join event.
func (n *LogNotifier) MemberJoined(g *models.Group, u *models.User) {
	log.Info().
		Str("event", "member_joined").
		Str("group_id", g.ID).
		Str("group_name", g.Name).
		Str("user_id", u.ID).
		Str("user_name", u.DisplayName()).
		Msg("new member joined group")
}

// MatchesComputed logs a matching event.
func (n *LogNotifier) MatchesComputed(g *models.Group, pairs int) {
	log.Info().
		Str("event", "matches_computed").
		Str("group_id", g.ID).
		Str("group_name", g.Name).
		Int("pairs", pairs).
		Msg("matches computed for group")
}

// Nop implements Notifier and drops all events. Used in tests.
type Nop struct{}

// MemberJoined drops the event.
func (Nop) MemberJoined(_ *models.Group, _ *models.User) {}

// MatchesComputed drops the event.
func (Nop) MatchesComputed(_ *models.Group, _ int) {}
