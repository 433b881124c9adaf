// Package queue defines message payloads exchanged over the message broker.
package queue

// DefaultQueueName is the queue unlock events are published to when no
// override is configured.
const DefaultQueueName = "achievement.unlocked"

// AchievementUnlockedEvent is published the first time an achievement is
// unlocked in a process lifetime. It deliberately carries no caller identity.
type AchievementUnlockedEvent struct {
	Achievement string `json:"achievement"`
	Title       string `json:"title"`
	UnlockedAt  string `json:"unlocked_at"`
}
