package models

import (
	"errors"
	"fmt"
	"photoframer/utils"

	"gorm.io/gorm"
)

type Visibility string

const (
	VisibilityPrivate  Visibility = "private"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPublic   Visibility = "public"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityUnlisted || v == VisibilityPublic
}

const (
	AlbumNameMaxLen        = 100
	AlbumDescriptionMaxLen = 2000

	ThumbQualityMin     = 1
	ThumbQualityMax     = 100
	ThumbQualityDefault = 80

	slugMaxAttempts = 50
)

var ErrSlugExhausted = errors.New("could not find a free slug")

type Album struct {
	ID           uint64 `gorm:"primaryKey"`
	UserID       uint64 `gorm:"not null;index:user_album_created,priority:1"`
	User         User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt    int64  `gorm:"index:user_album_created,priority:2"`
	UpdatedAt    int64
	Name         string     `gorm:"type:varchar(100)"`
	Description  string     `gorm:"type:varchar(2000)"`
	Slug         string     `gorm:"type:varchar(120);index:uniq_slug,unique"`
	Visibility   Visibility `gorm:"type:varchar(10);not null"`
	CoverPhotoID *uint64
	// Thumbnail settings, consumed by the transcoder
	CompressionEnabled bool
	ThumbQuality       int `gorm:"not null"`
}

// AlbumCreate inserts the album, deriving a unique slug from its name.
// Uniqueness is enforced by the DB index: on a duplicate-key error the
// insert is retried with the next numeric suffix, so two concurrent
// creations with the same name cannot both win the same slug.
func AlbumCreate(db *gorm.DB, album *Album) error {
	base := utils.Slugify(album.Name)
	if base == "" {
		base = "album"
	}
	album.Slug = base
	for attempt := 1; ; attempt++ {
		err := db.Create(album).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		if attempt >= slugMaxAttempts {
			return ErrSlugExhausted
		}
		album.ID = 0
		album.Slug = fmt.Sprintf("%s-%d", base, attempt)
	}
}

// CanBeViewedBy implements the read gate: public albums are open to
// anyone, unlisted and private ones only to the owner or an admin.
func (a *Album) CanBeViewedBy(user *User) bool {
	if a.Visibility == VisibilityPublic {
		return true
	}
	if user == nil || user.ID == 0 {
		return false
	}
	return user.ID == a.UserID || user.IsAdmin()
}

// CanBeEditedBy implements the mutation gate: contributor tier or above,
// and either ownership or admin.
func (a *Album) CanBeEditedBy(user *User) bool {
	if !user.HasRole(RoleContributor) {
		return false
	}
	return user.ID == a.UserID || user.IsAdmin()
}

// ReassignCover points the cover at any remaining photo (or clears it).
// Runs inside the caller's transaction.
func (a *Album) ReassignCover(tx *gorm.DB, excludePhotoID uint64) error {
	var next Photo
	err := tx.Where("album_id = ? AND id != ?", a.ID, excludePhotoID).
		Order("sort_order ASC, created_at ASC").
		Limit(1).Find(&next).Error
	if err != nil {
		return err
	}
	if next.ID == 0 {
		return tx.Model(a).Update("cover_photo_id", nil).Error
	}
	return tx.Model(a).Update("cover_photo_id", next.ID).Error
}
