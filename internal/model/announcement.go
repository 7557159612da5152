package model

import "time"

// AnnouncementType selects how an announcement banner is styled.
type AnnouncementType int

const (
	AnnouncementGeneric      AnnouncementType = 1
	AnnouncementWarningAlert AnnouncementType = 2
	AnnouncementSeriousAlert AnnouncementType = 3
	AnnouncementCustom       AnnouncementType = 4
)

// String returns the lowercase name used by the web client.
func (t AnnouncementType) String() string {
	switch t {
	case AnnouncementGeneric:
		return "generic"
	case AnnouncementWarningAlert:
		return "warning"
	case AnnouncementSeriousAlert:
		return "serious"
	case AnnouncementCustom:
		return "custom"
	default:
		return "generic"
	}
}

// Link is a call-to-action attached to an announcement.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Announcement is a site-wide banner shown between StartTime and EndTime.
type Announcement struct {
	ID        int64
	Title     string
	Content   string
	Type      AnnouncementType
	Links     []Link
	TrackIDs  []int64
	StartTime *time.Time
	EndTime   *time.Time
}

// ActiveAt returns true if the announcement should be shown at t.
// A nil bound is open.
func (a *Announcement) ActiveAt(t time.Time) bool {
	if a.StartTime != nil && t.Before(*a.StartTime) {
		return false
	}
	if a.EndTime != nil && !t.Before(*a.EndTime) {
		return false
	}
	return true
}
