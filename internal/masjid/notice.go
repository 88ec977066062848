package masjid

import (
	"time"

	"github.com/google/uuid"
)

// NoticeKind distinguishes plain announcements from lesson announcements.
type NoticeKind string

const (
	NoticeGeneral NoticeKind = "general"
	NoticeLesson  NoticeKind = "lesson"
)

// Lesson describes a scheduled lesson.
type Lesson struct {
	Subject  string `yaml:"subject,omitempty" json:"subject,omitempty"`
	Lecturer string `yaml:"lecturer,omitempty" json:"lecturer,omitempty"`
	Title    string `yaml:"title,omitempty" json:"title,omitempty"`
}

// Notice is an announcement shown between Start and End. A nil End never
// expires.
type Notice struct {
	ID     string     `yaml:"id,omitempty" json:"id"`
	Name   string     `yaml:"name" json:"name" validate:"required"`
	Kind   NoticeKind `yaml:"kind,omitempty" json:"kind" validate:"omitempty,oneof=general lesson"`
	Start  time.Time  `yaml:"start" json:"start" validate:"required"`
	End    *time.Time `yaml:"end,omitempty" json:"end,omitempty"`
	URL    string     `yaml:"url,omitempty" json:"url,omitempty"`
	Header string     `yaml:"header,omitempty" json:"header,omitempty"`
	Footer string     `yaml:"footer,omitempty" json:"footer,omitempty"`
	Body   string     `yaml:"body,omitempty" json:"body,omitempty"`
	Lesson *Lesson    `yaml:"lesson,omitempty" json:"lesson,omitempty"`
}

// Active reports whether the notice shows at now.
func (n Notice) Active(now time.Time) bool {
	return !now.Before(n.Start) && (n.End == nil || now.Before(*n.End))
}

// Board is an ordered list of notices.
type Board []Notice

// Active returns the notices showing at now, in board order.
func (b Board) Active(now time.Time) []Notice {
	var out []Notice
	for _, n := range b {
		if n.Active(now) {
			out = append(out, n)
		}
	}
	return out
}

// NormalizeNotices returns a copy of ns with ids filled in, kinds defaulted
// to general and fields that do not belong to the kind cleared.
func NormalizeNotices(ns []Notice) Board {
	out := make(Board, len(ns))
	for i, n := range ns {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		if n.Kind == "" {
			n.Kind = NoticeGeneral
		}
		switch n.Kind {
		case NoticeLesson:
			n.Body = ""
		default:
			n.Lesson = nil
		}
		out[i] = n
	}
	return out
}
