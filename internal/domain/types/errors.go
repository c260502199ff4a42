package types

import "errors"

// ErrLeaderboardUnavailable reports that a competition's leaderboard could not
// be computed from its current submissions.
var ErrLeaderboardUnavailable = errors.New("leaderboard unavailable")
