package utils

import (
	"github.com/gosimple/slug"
)

// NormalizeSlug creates a URL-friendly slug using the gosimple/slug library.
func NormalizeSlug(text string) string {
	if text == "" {
		return ""
	}
	return slug.Make(text)
}

// GenerateGameSlug creates a slug for a game from team abbreviations and the
// provider-prefixed game id.
func GenerateGameSlug(homeTeam, awayTeam, gameID string) string {
	if homeTeam == "" {
		homeTeam = "home"
	}
	if awayTeam == "" {
		awayTeam = "away"
	}
	if gameID == "" {
		gameID = "game"
	}

	return NormalizeSlug(awayTeam + " at " + homeTeam + " " + gameID)
}

// GenerateTeamSlug creates a slug for a team name.
func GenerateTeamSlug(teamName string) string {
	if teamName == "" {
		return "team"
	}
	return NormalizeSlug(teamName)
}
