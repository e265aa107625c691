package rend

import "fmt"

// GroupID identifies a render queue group. Groups define the coarse
// submission order of a frame: lower-numbered groups always render before
// higher-numbered groups. Within a group, ordering is controlled by
// Priority and by the group's sort mode.
type GroupID uint8

// The well-known queue groups. GroupQueue1 through GroupQueue8 are
// general-purpose slots between the skies; GroupMain is where ordinary
// scene objects go by default.
const (
	// GroupBackground renders first. Typically used for clears or
	// backdrops that everything else draws over.
	GroupBackground GroupID = 0

	// GroupSkiesEarly is for sky domes and boxes drawn before the
	// main scene.
	GroupSkiesEarly GroupID = 5

	GroupQueue1 GroupID = 10
	GroupQueue2 GroupID = 20
	GroupQueue3 GroupID = 30
	GroupQueue4 GroupID = 40

	// GroupMain is the default group for scene objects.
	GroupMain GroupID = 50

	GroupQueue6 GroupID = 60
	GroupQueue7 GroupID = 70
	GroupQueue8 GroupID = 80

	// GroupSkiesLate is for skies rendered after the main scene
	// (for example when the sky relies on depth rejection).
	GroupSkiesLate GroupID = 95

	// GroupOverlay renders last, on top of everything.
	GroupOverlay GroupID = 100
)

// GroupCount is one past the highest valid GroupID.
const GroupCount = 101

// String returns the name of well-known groups and a numeric form for
// the general-purpose slots.
func (g GroupID) String() string {
	switch g {
	case GroupBackground:
		return "background"
	case GroupSkiesEarly:
		return "skies-early"
	case GroupMain:
		return "main"
	case GroupSkiesLate:
		return "skies-late"
	case GroupOverlay:
		return "overlay"
	}
	return fmt.Sprintf("group-%d", uint8(g))
}

// Priority orders renderables within a group, ascending: priority 0
// renders before priority 1. DefaultPriority leaves room on both sides
// for callers that need to slot objects before or after the bulk of
// the scene.
type Priority uint16

// DefaultPriority is used when the caller does not care about
// intra-group ordering.
const DefaultPriority Priority = 100
