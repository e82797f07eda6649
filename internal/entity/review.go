package entity

import (
	"time"
)

const (
	MinScore = 1
	MaxScore = 10
)

type Review struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	TitleID  uint      `gorm:"not null;uniqueIndex:idx_reviews_title_author,priority:1" json:"-"`
	AuthorID uint      `gorm:"not null;uniqueIndex:idx_reviews_title_author,priority:2" json:"-"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Score    int       `gorm:"type:smallint;not null;check:chk_reviews_score,score BETWEEN 1 AND 10" json:"score"`
	PubDate  time.Time `gorm:"autoCreateTime;index" json:"pub_date"`
	Comments []Comment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Comment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	ReviewID uint      `gorm:"not null;index" json:"-"`
	AuthorID uint      `gorm:"not null;index" json:"-"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"type:date;not null;index" json:"pub_date"`
}
