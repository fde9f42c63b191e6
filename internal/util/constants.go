package util

const (
	DefaultPageLimit = 12
	MaxPageLimit     = 100

	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)
