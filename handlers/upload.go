package handlers

import (
	"fmt"
	"log"
	"net/http"

	"photoframer/models"
	"photoframer/processing"

	"github.com/gin-gonic/gin"
)

// AlbumUploadPhotos takes a multipart batch under the "photos" field.
// Batch-level violations (too many files, an oversized or wrongly-typed
// file) fail the whole request before anything is stored; per-file
// content failures inside the pipeline only skip that file.
func (a *API) AlbumUploadPhotos(c *gin.Context, user *models.User) {
	album := a.loadEditableAlbum(c, user)
	if album == nil {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	uploads := form.File["photos"]
	if len(uploads) == 0 {
		c.JSON(http.StatusBadRequest, Response{"No files provided"})
		return
	}
	if len(uploads) > processing.MaxBatchFiles {
		c.JSON(http.StatusBadRequest,
			Response{fmt.Sprintf("Too many files, %d max", processing.MaxBatchFiles)})
		return
	}
	var total uint64
	for _, upload := range uploads {
		if upload.Size > processing.MaxFileSize {
			c.JSON(http.StatusBadRequest,
				Response{fmt.Sprintf("File %s is too large", upload.Filename)})
			return
		}
		mimeType := upload.Header.Get("Content-Type")
		if !processing.MimeTypeAllowed(mimeType) {
			c.JSON(http.StatusBadRequest,
				Response{fmt.Sprintf("File %s has unsupported type %s", upload.Filename, mimeType)})
			return
		}
		total += uint64(upload.Size)
	}
	if free := a.Store.Files.GetFreeSpace(); free < 2*total {
		log.Printf("Upload rejected: %d bytes incoming, %d free", total, free)
		c.JSON(http.StatusInternalServerError, Response{"Not enough storage space"})
		return
	}

	files := make([]processing.IncomingFile, 0, len(uploads))
	for _, upload := range uploads {
		storedName := models.NewStoredFilename(upload.Filename)
		src, err := upload.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, Response{"Cannot read upload"})
			return
		}
		_, err = a.Store.SaveTemp(storedName, src)
		src.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, Response{"Cannot store upload"})
			return
		}
		files = append(files, processing.IncomingFile{
			OriginalName: upload.Filename,
			MimeType:     upload.Header.Get("Content-Type"),
			StoredName:   storedName,
		})
	}

	pipeline := processing.Pipeline{DB: a.DB, Store: a.Store}
	created := pipeline.Process(album, user, files)
	photos := make([]PhotoInfo, 0, len(created))
	for i := range created {
		photos = append(photos, photoInfoFrom(&created[i]))
	}
	c.JSON(http.StatusCreated, gin.H{
		"photos":    photos,
		"requested": len(files),
		"succeeded": len(photos),
	})
}
