package processing

import (
	"bytes"
	"fmt"
	"log"
	"path/filepath"
	"photoframer/models"
	"photoframer/storage"
	"strings"

	"gorm.io/gorm"
)

const (
	MaxBatchFiles = 20
	MaxFileSize   = 50 * 1024 * 1024 // 50MB
)

// IncomingFile is one member of an upload batch, already received into the
// temp holding area under its generated stored filename.
type IncomingFile struct {
	OriginalName string
	MimeType     string
	StoredName   string
}

type Pipeline struct {
	DB    *gorm.DB
	Store *storage.Layout
}

// Process runs each file of a batch through validate -> extract ->
// transcode -> persist, strictly one at a time. A failure in one file is
// logged and skipped - it never aborts its siblings. The temp artifact is
// removed whether the file succeeded or not. Returns the subset that made
// it through.
func (p *Pipeline) Process(album *models.Album, uploader *models.User, files []IncomingFile) []models.Photo {
	created := []models.Photo{}
	for i := range files {
		file := &files[i]
		photo, err := p.processOne(album, uploader, file)
		p.Store.DeleteTemp(file.StoredName)
		if err != nil {
			log.Printf("Upload: skipping %q: %v", file.OriginalName, err)
			continue
		}
		created = append(created, *photo)
	}
	return created
}

func (p *Pipeline) processOne(album *models.Album, uploader *models.User, file *IncomingFile) (*models.Photo, error) {
	var buf bytes.Buffer
	if _, err := p.Store.LoadTemp(file.StoredName, &buf); err != nil {
		return nil, err
	}
	data := buf.Bytes()

	if !ValidMagicBytes(data, file.MimeType) {
		return nil, fmt.Errorf("content does not match claimed type %s", file.MimeType)
	}

	// Best effort - a photo without metadata is still a photo
	exif := ExtractMetadata(p.Store.TempPath(file.StoredName))

	quality := album.ThumbQuality
	if !album.CompressionEnabled {
		quality = NearLosslessQuality
	}
	orientation := 0
	if exif != nil && exif.Orientation != nil {
		orientation = *exif.Orientation
	}
	var thumbBuf bytes.Buffer
	tr, err := CreateThumb(bytes.NewReader(data), &thumbBuf, file.MimeType, quality, orientation)
	if err != nil {
		return nil, fmt.Errorf("transcode: %w", err)
	}

	originalPath := storage.OriginalPath(file.StoredName)
	thumbPath := storage.ThumbnailPath(thumbFilename(file.StoredName, tr.ThumbExt))

	// The original is preserved byte for byte
	if _, err = p.Store.Files.Save(originalPath, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	if _, err = p.Store.Files.Save(thumbPath, &thumbBuf); err != nil {
		_ = p.Store.Files.Delete(originalPath)
		return nil, err
	}

	photo := models.Photo{
		AlbumID:      album.ID,
		UploaderID:   uploader.ID,
		Filename:     file.StoredName,
		OriginalName: file.OriginalName,
		Path:         originalPath,
		ThumbPath:    thumbPath,
		MimeType:     file.MimeType,
		Size:         int64(len(data)),
		Width:        tr.Width,
		Height:       tr.Height,
		License:      models.DefaultLicense,
		Exif:         exif,
	}
	// Creating the record and claiming the cover slot are one logical
	// write - a crash in between must not leave them disagreeing.
	err = p.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&photo).Error; err != nil {
			return err
		}
		if album.CoverPhotoID == nil {
			if err := tx.Model(album).UpdateColumn("cover_photo_id", photo.ID).Error; err != nil {
				return err
			}
			album.CoverPhotoID = &photo.ID
		}
		return nil
	})
	if err != nil {
		// The files can't join the transaction; compensate instead
		_ = p.Store.Files.Delete(originalPath)
		_ = p.Store.Files.Delete(thumbPath)
		return nil, err
	}
	return &photo, nil
}

func thumbFilename(storedName, thumbExt string) string {
	return strings.TrimSuffix(storedName, filepath.Ext(storedName)) + thumbExt
}
