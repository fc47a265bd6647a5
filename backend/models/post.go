package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Post struct {
	gorm.Model
	AuthorID uint                        `gorm:"index;not null" json:"authorId"`
	Author   *User                       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Title    string                      `gorm:"not null" json:"title"`
	Content  string                      `gorm:"not null" json:"content"`
	Tags     datatypes.JSONSlice[string] `json:"tags"`
	Image    string                      `json:"image,omitempty"`
	Category string                      `gorm:"index;not null" json:"category"`
	Comments []PostComment               `gorm:"constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

type PostComment struct {
	gorm.Model
	PostID   uint   `gorm:"index;not null" json:"postId"`
	UserID   uint   `gorm:"not null" json:"userId"`
	UserName string `json:"userName"`
	Text     string `gorm:"not null" json:"text"`
}
