package models

import (
	"time"
)

type PostType string

const (
	PostEvent    PostType = "event"
	PostLearning PostType = "learning"
	PostBible    PostType = "bible"
	PostSong     PostType = "song"
)

type Post struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title        string     `json:"title" gorm:"not null"`
	Content      string     `json:"content" gorm:"type:text;not null"`
	Type         PostType   `json:"type" gorm:"type:varchar(20);not null"`
	AuthorID     string     `json:"authorId" gorm:"type:uuid;not null"`
	Author       *User      `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Image        string     `json:"image,omitempty"`
	Video        string     `json:"video,omitempty"`
	VideoType    string     `json:"videoType,omitempty" gorm:"type:varchar(20)"`
	Featured     bool       `json:"featured" gorm:"default:false"`
	EventDate    *time.Time `json:"eventDate,omitempty"`
	EventEndDate *time.Time `json:"eventEndDate,omitempty"`
	Location     string     `json:"location,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type PostCreate struct {
	Title        string     `json:"title" binding:"required"`
	Content      string     `json:"content" binding:"required"`
	Type         PostType   `json:"type" binding:"required"`
	Image        string     `json:"image"`
	Video        string     `json:"video"`
	VideoType    string     `json:"videoType"`
	Featured     bool       `json:"featured"`
	EventDate    *time.Time `json:"eventDate"`
	EventEndDate *time.Time `json:"eventEndDate"`
	Location     string     `json:"location"`
}
