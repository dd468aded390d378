package session

// NoticeKind classifies something the presentation layer should surface.
type NoticeKind int

const (
	NoticeAchievement NoticeKind = iota // blocking popup, dismiss starts the bonus
	NoticeLaw                           // blocking popup for a newly reached epoch
	NoticeEvent                         // banner for a started event
	NoticeCollapse                      // universe collapsed
	NoticeSaved
	NoticeError
)

// Notice is queued by the session and drained by the UI.
type Notice struct {
	Kind NoticeKind
	// ID is the achievement or event id, empty otherwise.
	ID string
	// Epoch is set for NoticeLaw.
	Epoch int
	Text  string
}

// PauseReason names a blocking dialog. The session is paused while any
// reason is held.
type PauseReason string

const (
	PauseAchievement PauseReason = "achievement"
	PauseLaw         PauseReason = "law"
	PausePrestige    PauseReason = "prestige"
	PauseSettings    PauseReason = "settings"
	PauseAdmin       PauseReason = "admin"
)
