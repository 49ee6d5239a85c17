package models

import (
	"time"
)

// ImageUploadDir is the media sub-directory post images are stored under.
const ImageUploadDir = "posts"

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group,omitempty"`
	Image     string    `gorm:"size:255" json:"image"` // relative to the media root, e.g. posts/cat.gif
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (p Post) String() string {
	return Truncate(p.Text, 15)
}

// Excerpt is the short preview shown on the detail page.
func (p Post) Excerpt() string {
	return Truncate(p.Text, 10)
}

// Truncate cuts s to at most n characters without splitting a rune.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
