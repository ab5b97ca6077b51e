package domain

// Storage keys shared by every command and the local bridge.
const (
	ProfileKey  = "profile"
	DeviceIDKey = "device_id"

	// CardPreviewPrefix marks cached card previews, the first thing evicted
	// when the store runs out of room.
	CardPreviewPrefix = "card:preview:"

	// LegacyDoneFlag is the sentinel written by the two-key layout.
	LegacyDoneFlag = "1"
)

func StateKey(seasonID, quizID string) string {
	return seasonID + ":" + quizID + ":state"
}

func LegacyDoneKey(seasonID, quizID string) string {
	return seasonID + ":" + quizID + ":done"
}

func LegacyResultKey(seasonID, quizID string) string {
	return seasonID + ":" + quizID + ":result"
}

func LegacyProgressKey(seasonID, quizID string) string {
	return seasonID + ":" + quizID + ":progress"
}

func CardPreviewKey(seasonID string) string {
	return CardPreviewPrefix + seasonID
}
