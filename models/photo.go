package models

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PhotoTitleMaxLen   = 200
	PhotoCaptionMaxLen = 2000
	PhotoAltTextMaxLen = 500
	PhotoLicenseMaxLen = 100

	DefaultLicense = "All Rights Reserved"
)

type Photo struct {
	ID           uint64 `gorm:"primaryKey"`
	AlbumID      uint64 `gorm:"not null;index"`
	Album        Album  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UploaderID   uint64 `gorm:"not null"`
	Uploader     User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt    int64
	UpdatedAt    int64
	Filename     string `gorm:"type:varchar(100);index:uniq_filename,unique"`
	OriginalName string `gorm:"type:varchar(300)"`
	Path         string `gorm:"type:varchar(500)"` // storage-relative original
	ThumbPath    string `gorm:"type:varchar(500)"`
	MimeType     string `gorm:"type:varchar(50)"`
	Size         int64
	Width        uint16
	Height       uint16
	Title        string    `gorm:"type:varchar(200)"`
	Caption      string    `gorm:"type:varchar(2000)"`
	AltText      string    `gorm:"type:varchar(500)"`
	License      string    `gorm:"type:varchar(100)"`
	Exif         *ExifData `gorm:"serializer:json"`
	ViewCount    uint64    `gorm:"not null;default:0"`
	SortOrder    int       `gorm:"not null;default:0"`
}

var safeExt = regexp.MustCompile(`^\.[a-z0-9]+$`)

// NewStoredFilename generates the on-disk name for an upload: a random
// UUID plus the original extension, lowercased. Nothing else of the
// client-supplied name survives, so the result can never be guessed or
// traverse paths.
func NewStoredFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !safeExt.MatchString(ext) {
		ext = ""
	}
	return uuid.NewString() + ext
}

// CanBeViewedBy defers to the owning album's visibility.
// p.Album must be preloaded.
func (p *Photo) CanBeViewedBy(user *User) bool {
	return p.Album.CanBeViewedBy(user)
}

// CanBeEditedBy defers to the owning album's mutation gate.
// p.Album must be preloaded.
func (p *Photo) CanBeEditedBy(user *User) bool {
	return p.Album.CanBeEditedBy(user)
}

// IncrementViews bumps the counter without racing concurrent readers.
func (p *Photo) IncrementViews(db *gorm.DB) error {
	return db.Model(p).UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
