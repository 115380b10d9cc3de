// ABOUTME: UserProfile is the short, session-scoped description of how a user is doing
// ABOUTME: Captured by the guidance form and never persisted unless the caller saves it
package models

import "strings"

// UserProfile describes a user's current mood, concern, and preferred tone
type UserProfile struct {
	Mood       string `json:"mood"`
	Concern    string `json:"concern"`
	Tone       string `json:"tone"`
	DailyVerse bool   `json:"daily_verse"`
}

// Normalize lowercases and trims the free-form labels
func (p UserProfile) Normalize() UserProfile {
	p.Mood = strings.ToLower(strings.TrimSpace(p.Mood))
	p.Concern = strings.ToLower(strings.TrimSpace(p.Concern))
	p.Tone = strings.ToLower(strings.TrimSpace(p.Tone))
	return p
}
