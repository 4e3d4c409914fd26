package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"photoframer/models"

	"github.com/gin-gonic/gin"
)

type AlbumCreateRequest struct {
	Name               string `json:"name" binding:"required"`
	Description        string `json:"description"`
	Visibility         string `json:"visibility"`
	CompressionEnabled *bool  `json:"compression_enabled"`
	ThumbnailQuality   *int   `json:"thumbnail_quality"`
}

type AlbumUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Visibility  *string `json:"visibility"`
}

type AlbumSettingsRequest struct {
	CompressionEnabled *bool `json:"compression_enabled"`
	ThumbnailQuality   *int  `json:"thumbnail_quality"`
}

type CoverInfo struct {
	ID       uint64 `json:"id"`
	Filename string `json:"filename"`
	Thumb    string `json:"thumb"`
}

type AlbumInfo struct {
	ID                 uint64     `json:"id"`
	Owner              uint64     `json:"owner"`
	OwnerName          string     `json:"owner_name"`
	Name               string     `json:"name"`
	Slug               string     `json:"slug"`
	Description        string     `json:"description"`
	Visibility         string     `json:"visibility"`
	PhotoCount         int64      `json:"photo_count"`
	Cover              *CoverInfo `json:"cover_photo"`
	CompressionEnabled bool       `json:"compression_enabled"`
	ThumbnailQuality   int        `json:"thumbnail_quality"`
	CreatedAt          int64      `json:"created_at"`
}

func albumInfoFrom(album *models.Album, ownerName string, photoCount int64) AlbumInfo {
	return AlbumInfo{
		ID:                 album.ID,
		Owner:              album.UserID,
		OwnerName:          ownerName,
		Name:               album.Name,
		Slug:               album.Slug,
		Description:        album.Description,
		Visibility:         string(album.Visibility),
		PhotoCount:         photoCount,
		CompressionEnabled: album.CompressionEnabled,
		ThumbnailQuality:   album.ThumbQuality,
		CreatedAt:          album.CreatedAt,
	}
}

func validateLength(value string, maxLength int, fieldName string) string {
	if len(value) > maxLength {
		return fmt.Sprintf("%s must be %d characters or less", fieldName, maxLength)
	}
	return ""
}

// AlbumList returns the albums visible to the caller: all of them for an
// admin, public plus their own for a user, public only for anonymous.
// Non-visible albums are silently omitted - listing never leaks.
func (a *API) AlbumList(c *gin.Context) {
	user := a.Sessions.Load(c).User()

	tx := a.DB.
		Table("albums").
		Select("albums.id, albums.user_id, users.username, albums.name, albums.slug, albums.description, " +
			"albums.visibility, albums.cover_photo_id, albums.compression_enabled, albums.thumb_quality, " +
			"albums.created_at, count(photos.id)").
		Joins("join users on users.id = albums.user_id").
		Joins("left join photos on photos.album_id = albums.id")
	if user.IsAdmin() {
		// Admin sees all albums
	} else if user.ID > 0 {
		tx = tx.Where("albums.visibility = ? OR albums.user_id = ?", models.VisibilityPublic, user.ID)
	} else {
		tx = tx.Where("albums.visibility = ?", models.VisibilityPublic)
	}
	rows, err := tx.
		Group("albums.id, albums.user_id, users.username, albums.name, albums.slug, albums.description, " +
			"albums.visibility, albums.cover_photo_id, albums.compression_enabled, albums.thumb_quality, albums.created_at").
		Order("albums.created_at DESC").
		Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 1"})
		return
	}
	defer rows.Close()

	result := []AlbumInfo{}
	covers := []*uint64{}
	for rows.Next() {
		info := AlbumInfo{}
		var coverID *uint64
		if err = rows.Scan(&info.ID, &info.Owner, &info.OwnerName, &info.Name, &info.Slug, &info.Description,
			&info.Visibility, &coverID, &info.CompressionEnabled, &info.ThumbnailQuality,
			&info.CreatedAt, &info.PhotoCount); err != nil {

			log.Printf("DB error: %v", err)
			c.JSON(http.StatusInternalServerError, Response{"DB error 2"})
			return
		}
		result = append(result, info)
		covers = append(covers, coverID)
	}
	for i, coverID := range covers {
		if coverID == nil {
			continue
		}
		var cover models.Photo
		if a.DB.Select("id, filename, thumb_path").First(&cover, *coverID).Error != nil {
			continue
		}
		result[i].Cover = &CoverInfo{ID: cover.ID, Filename: cover.Filename, Thumb: cover.ThumbPath}
	}
	c.JSON(http.StatusOK, gin.H{"albums": result})
}

// AlbumGet fetches one album by slug, with its photos. A direct fetch of
// an existing album the caller may not see returns 403, not 404 - only a
// truly absent slug is a 404.
func (a *API) AlbumGet(c *gin.Context) {
	user := a.Sessions.Load(c).User()
	var album models.Album
	result := a.DB.Preload("User").Where("slug = ?", c.Param("slug")).Find(&album)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 1"})
		return
	}
	if album.ID == 0 {
		c.JSON(http.StatusNotFound, Response{"Album not found"})
		return
	}
	if !album.CanBeViewedBy(&user) {
		c.JSON(http.StatusForbidden, AccessDeniedResponse)
		return
	}
	var photos []models.Photo
	if err := a.DB.Where("album_id = ?", album.ID).
		Order("sort_order ASC, created_at DESC").
		Find(&photos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error 2"})
		return
	}
	info := albumInfoFrom(&album, album.User.Username, int64(len(photos)))
	photoInfos := make([]PhotoInfo, 0, len(photos))
	for i := range photos {
		photoInfos = append(photoInfos, photoInfoFrom(&photos[i]))
	}
	c.JSON(http.StatusOK, gin.H{"album": info, "photos": photoInfos})
}

func (a *API) AlbumCreate(c *gin.Context, user *models.User) {
	r := AlbumCreateRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if msg := validateLength(r.Name, models.AlbumNameMaxLen, "Album name"); msg != "" {
		c.JSON(http.StatusBadRequest, Response{msg})
		return
	}
	if msg := validateLength(r.Description, models.AlbumDescriptionMaxLen, "Description"); msg != "" {
		c.JSON(http.StatusBadRequest, Response{msg})
		return
	}
	visibility := models.VisibilityPrivate
	if r.Visibility != "" {
		visibility = models.Visibility(r.Visibility)
		if !visibility.Valid() {
			c.JSON(http.StatusBadRequest, Response{"Invalid visibility"})
			return
		}
	}
	album := models.Album{
		UserID:             user.ID,
		Name:               r.Name,
		Description:        r.Description,
		Visibility:         visibility,
		CompressionEnabled: true,
		ThumbQuality:       models.ThumbQualityDefault,
	}
	if r.CompressionEnabled != nil {
		album.CompressionEnabled = *r.CompressionEnabled
	}
	if r.ThumbnailQuality != nil {
		if *r.ThumbnailQuality < models.ThumbQualityMin || *r.ThumbnailQuality > models.ThumbQualityMax {
			c.JSON(http.StatusBadRequest, Response{"Thumbnail quality out of range"})
			return
		}
		album.ThumbQuality = *r.ThumbnailQuality
	}
	if err := models.AlbumCreate(a.DB, &album); err != nil {
		if errors.Is(err, models.ErrSlugExhausted) {
			c.JSON(http.StatusConflict, Response{"Too many albums with this name"})
			return
		}
		c.JSON(http.StatusInternalServerError, Response{"DB error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"album": albumInfoFrom(&album, user.Username, 0)})
}

// loadEditableAlbum resolves :id and runs the mutation gate. Writes the
// error response itself and returns nil when the caller should bail.
func (a *API) loadEditableAlbum(c *gin.Context, user *models.User) *models.Album {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, Response{"Invalid album id"})
		return nil
	}
	var album models.Album
	result := a.DB.Preload("User").Find(&album, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error"})
		return nil
	}
	if album.ID == 0 {
		c.JSON(http.StatusNotFound, Response{"Album not found"})
		return nil
	}
	if !album.CanBeEditedBy(user) {
		c.JSON(http.StatusForbidden, AccessDeniedResponse)
		return nil
	}
	return &album
}

func (a *API) AlbumUpdate(c *gin.Context, user *models.User) {
	r := AlbumUpdateRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if r.Name != nil {
		if *r.Name == "" {
			c.JSON(http.StatusBadRequest, Response{"Album name is required"})
			return
		}
		if msg := validateLength(*r.Name, models.AlbumNameMaxLen, "Album name"); msg != "" {
			c.JSON(http.StatusBadRequest, Response{msg})
			return
		}
	}
	if r.Description != nil {
		if msg := validateLength(*r.Description, models.AlbumDescriptionMaxLen, "Description"); msg != "" {
			c.JSON(http.StatusBadRequest, Response{msg})
			return
		}
	}
	if r.Visibility != nil && !models.Visibility(*r.Visibility).Valid() {
		c.JSON(http.StatusBadRequest, Response{"Invalid visibility"})
		return
	}
	album := a.loadEditableAlbum(c, user)
	if album == nil {
		return
	}
	updates := map[string]interface{}{}
	if r.Name != nil {
		updates["name"] = *r.Name
	}
	if r.Description != nil {
		updates["description"] = *r.Description
	}
	if r.Visibility != nil {
		updates["visibility"] = *r.Visibility
	}
	if len(updates) > 0 {
		if err := a.DB.Model(album).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, Response{"DB error"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"album": albumInfoFrom(album, album.User.Username, a.albumPhotoCount(album.ID))})
}

func (a *API) albumPhotoCount(albumID uint64) (count int64) {
	a.DB.Model(&models.Photo{}).Where("album_id = ?", albumID).Count(&count)
	return
}

func (a *API) AlbumUpdateSettings(c *gin.Context, user *models.User) {
	r := AlbumSettingsRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if r.ThumbnailQuality != nil &&
		(*r.ThumbnailQuality < models.ThumbQualityMin || *r.ThumbnailQuality > models.ThumbQualityMax) {
		c.JSON(http.StatusBadRequest, Response{"Thumbnail quality out of range"})
		return
	}
	album := a.loadEditableAlbum(c, user)
	if album == nil {
		return
	}
	updates := map[string]interface{}{}
	if r.CompressionEnabled != nil {
		updates["compression_enabled"] = *r.CompressionEnabled
	}
	if r.ThumbnailQuality != nil {
		updates["thumb_quality"] = *r.ThumbnailQuality
	}
	if len(updates) > 0 {
		if err := a.DB.Model(album).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, Response{"DB error"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"album": albumInfoFrom(album, album.User.Username, a.albumPhotoCount(album.ID))})
}

func (a *API) AlbumDelete(c *gin.Context, user *models.User) {
	album := a.loadEditableAlbum(c, user)
	if album == nil {
		return
	}
	var photos []models.Photo
	if err := a.DB.Where("album_id = ?", album.ID).Find(&photos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error"})
		return
	}
	for i := range photos {
		if err := a.Store.Files.Delete(photos[i].Path); err != nil {
			log.Printf("Album %d: cannot delete original %s: %v", album.ID, photos[i].Path, err)
		}
		if err := a.Store.Files.Delete(photos[i].ThumbPath); err != nil {
			log.Printf("Album %d: cannot delete thumbnail %s: %v", album.ID, photos[i].ThumbPath, err)
		}
	}
	// Photos go with the album via the FK cascade
	if err := a.DB.Delete(album).Error; err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error"})
		return
	}
	log.Printf("Album %d deleted with %d photos", album.ID, len(photos))
	c.JSON(http.StatusOK, gin.H{"success": true})
}
