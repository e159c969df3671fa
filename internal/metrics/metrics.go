package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "summit_group_messages_posted_total",
		Help: "Messages appended to the group chat.",
	})

	MessagesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "summit_group_messages_deleted_total",
		Help: "Group chat messages deleted by moderators.",
	})

	ReactionsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "summit_reactions_added_total",
		Help: "Reactions recorded, including idempotent re-adds.",
	})

	ReactionsRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "summit_reactions_removed_total",
		Help: "Reaction removals, including no-op removes.",
	})
)
