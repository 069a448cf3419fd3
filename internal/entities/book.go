package entities

import (
	"time"

	"gorm.io/datatypes"
)

type BookStatus string

const (
	BookStatusGenerating BookStatus = "generating"
	BookStatusCompleted  BookStatus = "completed"
	BookStatusError      BookStatus = "error"
)

// Terminal reports whether the status can never change again.
func (s BookStatus) Terminal() bool {
	return s == BookStatusCompleted || s == BookStatusError
}

type HeroType string

const (
	HeroTypeAnimal  HeroType = "animal"
	HeroTypePerson  HeroType = "person"
	HeroTypeFantasy HeroType = "fantasy"
)

// TitlePage is the cover illustration shown before page 1.
// Present only on completed and sample books.
type TitlePage struct {
	Image string `gorm:"type:text" json:"image"`
	Title string `gorm:"size:512" json:"title"`
}

// Character holds optional personalization for the story's hero.
type Character struct {
	Name   string                      `gorm:"size:128" json:"name"`
	Type   string                      `gorm:"size:32" json:"type"`
	Traits datatypes.JSONSlice[string] `json:"traits"`
}

// Book is the storybook aggregate: metadata, ordered pages, and
// generation status.
type Book struct {
	ID                 string      `gorm:"primaryKey;size:64" json:"id"`
	Title              string      `gorm:"size:512" json:"title"`
	TitlePage          *TitlePage  `gorm:"embedded;embeddedPrefix:title_page_" json:"titlePage,omitempty"`
	Pages              []BookPage  `gorm:"foreignKey:BookID;references:ID" json:"pages"`
	AgeRange           string      `gorm:"size:32" json:"ageRange"`
	IllustrationStyle  string      `gorm:"size:128" json:"illustrationStyle"`
	Status             BookStatus  `gorm:"size:16;index" json:"status"`
	ErrorMessage       string      `gorm:"size:500" json:"-"`
	AudioURL           string      `gorm:"type:text" json:"audioUrl,omitempty"`
	CreatedAt          time.Time   `gorm:"index" json:"createdAt"`
	ExpectedPages      int         `json:"expectedPages"`
	GenerationProgress int         `json:"generationProgress"`
	Description        string      `gorm:"size:1024" json:"description,omitempty"`
	Category           string      `gorm:"size:64" json:"category,omitempty"`
	HeroType           HeroType    `gorm:"size:16" json:"heroType,omitempty"`
	Setting            string      `gorm:"size:128" json:"setting,omitempty"`
	IsSample           bool        `gorm:"index" json:"isSample,omitempty"`
	OwnerID            string      `gorm:"index;size:64" json:"ownerId,omitempty"`
	NarratorVoice      string      `gorm:"size:64" json:"narratorVoice,omitempty"`
	Character          *Character  `gorm:"embedded;embeddedPrefix:character_" json:"character,omitempty"`
	ReadCount          int64       `json:"readCount,omitempty"`
	LastReadAt         *time.Time  `json:"lastReadAt,omitempty"`
}

func (Book) TableName() string {
	return "books"
}

// Clone returns a deep copy so callers can mutate the result without
// aliasing tier-internal state.
func (b Book) Clone() Book {
	out := b
	if b.TitlePage != nil {
		tp := *b.TitlePage
		out.TitlePage = &tp
	}
	if b.Character != nil {
		ch := *b.Character
		ch.Traits = append(datatypes.JSONSlice[string]{}, b.Character.Traits...)
		out.Character = &ch
	}
	out.Pages = append([]BookPage{}, b.Pages...)
	if b.LastReadAt != nil {
		t := *b.LastReadAt
		out.LastReadAt = &t
	}
	return out
}

// BookPage is one illustrated page. Page numbers are 1-based and match
// the page's position in the ordered sequence.
type BookPage struct {
	BookID     string `gorm:"primaryKey;size:64" json:"-"`
	PageNumber int    `gorm:"primaryKey" json:"pageNumber"`
	Text       string `gorm:"type:text" json:"text"`
	Image      string `gorm:"type:text" json:"image"`
}

func (BookPage) TableName() string {
	return "book_pages"
}
