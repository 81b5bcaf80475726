package participation

// Decide fuses the two evidence signals. Either one is enough.
func Decide(faceParticipation bool, nameParticipation bool) bool {
	return faceParticipation || nameParticipation
}
