package handlers

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"photoframer/imagetoken"
	"photoframer/models"
	"photoframer/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PhotoUpdateRequest struct {
	Title   *string `json:"title"`
	Caption *string `json:"caption"`
	AltText *string `json:"alt_text"`
	License *string `json:"license"`
}

type PhotoInfo struct {
	ID           uint64           `json:"id"`
	AlbumID      uint64           `json:"album_id"`
	Filename     string           `json:"filename"`
	OriginalName string           `json:"original_name"`
	Thumb        string           `json:"thumb"`
	MimeType     string           `json:"mime_type"`
	Size         int64            `json:"size"`
	Width        uint16           `json:"width"`
	Height       uint16           `json:"height"`
	Title        string           `json:"title"`
	Caption      string           `json:"caption"`
	AltText      string           `json:"alt_text"`
	License      string           `json:"license"`
	Exif         *models.ExifData `json:"exif,omitempty"`
	ViewCount    uint64           `json:"view_count"`
	CreatedAt    int64            `json:"created_at"`
}

func photoInfoFrom(photo *models.Photo) PhotoInfo {
	return PhotoInfo{
		ID:           photo.ID,
		AlbumID:      photo.AlbumID,
		Filename:     photo.Filename,
		OriginalName: photo.OriginalName,
		Thumb:        photo.ThumbPath,
		MimeType:     photo.MimeType,
		Size:         photo.Size,
		Width:        photo.Width,
		Height:       photo.Height,
		Title:        photo.Title,
		Caption:      photo.Caption,
		AltText:      photo.AltText,
		License:      photo.License,
		Exif:         photo.Exif,
		ViewCount:    photo.ViewCount,
		CreatedAt:    photo.CreatedAt,
	}
}

// loadPhoto fetches a photo with its album preloaded, which the access
// checks need. Returns nil after writing the error response.
func (a *API) loadPhoto(c *gin.Context) *models.Photo {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, Response{"Invalid photo id"})
		return nil
	}
	var photo models.Photo
	result := a.DB.Preload("Album").Find(&photo, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error"})
		return nil
	}
	if photo.ID == 0 {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return nil
	}
	return &photo
}

// PhotoGet serves photo details to anyone the parent album admits and
// bumps the view counter. Storage paths never leave the server.
func (a *API) PhotoGet(c *gin.Context) {
	user := a.Sessions.Load(c).User()
	photo := a.loadPhoto(c)
	if photo == nil {
		return
	}
	if !photo.CanBeViewedBy(&user) {
		c.JSON(http.StatusForbidden, AccessDeniedResponse)
		return
	}
	if err := photo.IncrementViews(a.DB); err != nil {
		log.Printf("Photo %d: cannot bump view count: %v", photo.ID, err)
	}
	c.JSON(http.StatusOK, gin.H{"photo": photoInfoFrom(photo)})
}

func (a *API) PhotoUpdate(c *gin.Context, user *models.User) {
	r := PhotoUpdateRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if r.Title != nil {
		if msg := validateLength(*r.Title, models.PhotoTitleMaxLen, "Title"); msg != "" {
			c.JSON(http.StatusBadRequest, Response{msg})
			return
		}
	}
	if r.Caption != nil {
		if msg := validateLength(*r.Caption, models.PhotoCaptionMaxLen, "Caption"); msg != "" {
			c.JSON(http.StatusBadRequest, Response{msg})
			return
		}
	}
	if r.AltText != nil {
		if msg := validateLength(*r.AltText, models.PhotoAltTextMaxLen, "Alt text"); msg != "" {
			c.JSON(http.StatusBadRequest, Response{msg})
			return
		}
	}
	if r.License != nil {
		if msg := validateLength(*r.License, models.PhotoLicenseMaxLen, "License"); msg != "" {
			c.JSON(http.StatusBadRequest, Response{msg})
			return
		}
	}
	photo := a.loadPhoto(c)
	if photo == nil {
		return
	}
	if !photo.CanBeEditedBy(user) {
		c.JSON(http.StatusForbidden, AccessDeniedResponse)
		return
	}
	updates := map[string]interface{}{}
	if r.Title != nil {
		updates["title"] = *r.Title
	}
	if r.Caption != nil {
		updates["caption"] = *r.Caption
	}
	if r.AltText != nil {
		updates["alt_text"] = *r.AltText
	}
	if r.License != nil {
		updates["license"] = *r.License
	}
	if len(updates) > 0 {
		if err := a.DB.Model(photo).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, Response{"DB error"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"photo": photoInfoFrom(photo)})
}

// PhotoDelete removes the row and both stored files. When the photo was
// its album's cover, the cover moves to the next photo in display order
// within the same transaction.
func (a *API) PhotoDelete(c *gin.Context, user *models.User) {
	photo := a.loadPhoto(c)
	if photo == nil {
		return
	}
	if !photo.CanBeEditedBy(user) {
		c.JSON(http.StatusForbidden, AccessDeniedResponse)
		return
	}
	err := a.DB.Transaction(func(tx *gorm.DB) error {
		if photo.Album.CoverPhotoID != nil && *photo.Album.CoverPhotoID == photo.ID {
			if err := photo.Album.ReassignCover(tx, photo.ID); err != nil {
				return err
			}
		}
		return tx.Delete(photo).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error"})
		return
	}
	if err = a.Store.Files.Delete(photo.Path); err != nil {
		log.Printf("Photo %d: cannot delete original %s: %v", photo.ID, photo.Path, err)
	}
	if err = a.Store.Files.Delete(photo.ThumbPath); err != nil {
		log.Printf("Photo %d: cannot delete thumbnail %s: %v", photo.ID, photo.ThumbPath, err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PhotoFullResToken issues a short-lived token for one full-resolution
// download. Any signed-in user the album admits can get one.
func (a *API) PhotoFullResToken(c *gin.Context, user *models.User) {
	photo := a.loadPhoto(c)
	if photo == nil {
		return
	}
	if !photo.CanBeViewedBy(user) {
		c.JSON(http.StatusForbidden, AccessDeniedResponse)
		return
	}
	token, err := a.Tokens.Issue(photo.ID, photo.Filename, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{"Cannot issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"url":       "/api/photos/full/" + token + "/" + photo.Filename,
		"valid_for": int(imagetoken.Validity.Seconds()),
	})
}

// PhotoFullResFetch streams the original bytes for a valid token. The
// response is marked uncacheable so proxies cannot retain full-size
// copies past the token's life.
func (a *API) PhotoFullResFetch(c *gin.Context) {
	filename := c.Param("filename")
	grant, err := a.Tokens.Redeem(c.Param("token"), filename)
	if err != nil {
		log.Printf("Full-res token rejected for %s: %v", filename, err)
		if errors.Is(err, imagetoken.ErrFilenameMismatch) {
			c.JSON(http.StatusForbidden, BadTokenResponse)
		} else {
			c.JSON(http.StatusUnauthorized, BadTokenResponse)
		}
		return
	}
	var photo models.Photo
	result := a.DB.Find(&photo, grant.PhotoID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error"})
		return
	}
	if photo.ID == 0 || photo.Filename != filename {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Header("Content-Type", photo.MimeType)
	a.Store.Files.Serve(photo.Path, c.Request, c.Writer)
}

// ThumbFetch serves a thumbnail by stored filename. Filenames are UUIDs
// plus extension, so anything with a path separator is hostile.
func (a *API) ThumbFetch(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" || filename != filepath.Base(filename) || strings.ContainsAny(filename, "\\/") {
		c.JSON(http.StatusBadRequest, Response{"Invalid filename"})
		return
	}
	a.Store.Files.Serve(storage.ThumbnailPath(filename), c.Request, c.Writer)
}
