package entity

type Title struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:150;not null;index" json:"name"`
	Year        int       `gorm:"not null;index" json:"year"`
	CategoryID  *uint     `json:"-"`
	Category    *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category"`
	Genres      []Genre   `gorm:"many2many:title_genres;constraint:OnDelete:CASCADE" json:"genre"`
	Description *string   `gorm:"type:text" json:"description"`
	Reviews     []Review  `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	// Rating is filled by queries that select AVG(reviews.score) AS rating.
	Rating *float64 `gorm:"->;-:migration" json:"rating"`
}
