package sync

// ChannelIDPrefix marks two-party direct channels.
const ChannelIDPrefix = "direct_"

// ChannelID derives the deterministic channel ID for a pair of users:
// the two IDs sorted lexicographically, joined and prefixed. The same pair
// always maps to the same channel regardless of who initiates.
func ChannelID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return ChannelIDPrefix + a + "_" + b
}

// CandidateChannels pairs the user with every other roster entry and returns
// the derived channel IDs. This is a superset: a candidate channel may have
// no messages yet. An empty roster (e.g. the listing could not be fetched)
// yields an empty set; enumeration re-runs on the next roster push.
func CandidateChannels(userID string, roster []Profile) []string {
	channels := make([]string, 0, len(roster))
	for _, p := range roster {
		if p.ID == "" || p.ID == userID {
			continue
		}
		channels = append(channels, ChannelID(userID, p.ID))
	}
	return channels
}
