package present

import (
	"time"

	"github.com/handiism/album-catalog/internal/model"
)

// Announcement is the banner document sent to the web client.
type Announcement struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Type      string       `json:"type"`
	Links     []model.Link `json:"links"`
	Tracks    []int64      `json:"tracks"`
	StartTime *string      `json:"start_time"`
	EndTime   *string      `json:"end_time"`
}

// Announcements maps announcements to their documents. Nil lists become
// empty arrays.
func Announcements(list []*model.Announcement) []Announcement {
	out := make([]Announcement, len(list))
	for i, a := range list {
		out[i] = Announcement{
			ID:        a.ID,
			Title:     a.Title,
			Content:   a.Content,
			Type:      a.Type.String(),
			Links:     a.Links,
			Tracks:    a.TrackIDs,
			StartTime: formatOptional(a.StartTime),
			EndTime:   formatOptional(a.EndTime),
		}
		if out[i].Links == nil {
			out[i].Links = []model.Link{}
		}
		if out[i].Tracks == nil {
			out[i].Tracks = []int64{}
		}
	}
	return out
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timeLayout)
	return &s
}
