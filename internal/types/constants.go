package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// GroupConversationID is the reserved conversation every group-chat message
// belongs to. The row is seeded at migration time.
const GroupConversationID uint = 1

const MaxMessageLength = 2000

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()

	// TeamDomain is the reserved email domain whose accounts are
	// promoted to the glory_team role on creation.
	TeamDomain = initTeamDomain()

	// AllowedEmojis is the server-side reaction allow-list. Anything
	// outside this set is rejected with a validation error.
	AllowedEmojis = map[string]bool{
		"👍": true,
		"❤️": true,
		"😂": true,
		"🎉": true,
		"👏": true,
		"🔥": true,
	}
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}

func initTeamDomain() string {
	if domain := os.Getenv("TEAM_EMAIL_DOMAIN"); domain != "" {
		return strings.ToLower(strings.TrimSpace(domain))
	}

	return "glorysummit.com"
}
