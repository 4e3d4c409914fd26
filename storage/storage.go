package storage

import (
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// FileStore is the backend for the two permanent roles (originals and
// thumbnails). Disk and S3 implement it.
type FileStore interface {
	Save(path string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	Delete(path string) error
	GetSize(path string) int64
	GetFreeSpace() uint64
}

const (
	originalsPrefix  = "originals"
	thumbnailsPrefix = "thumbnails"

	SweepInterval = 30 * time.Minute
	TempMaxAge    = time.Hour
)

// Layout maps photos onto their three on-disk roles. The temp holding
// area is always a local directory, regardless of the permanent backend.
type Layout struct {
	Files   FileStore
	tempDir string
}

func NewLayout(files FileStore, tempDir string) (*Layout, error) {
	if err := os.MkdirAll(tempDir, 0777); err != nil {
		return nil, err
	}
	return &Layout{Files: files, tempDir: tempDir}, nil
}

func OriginalPath(filename string) string {
	return originalsPrefix + "/" + filename
}

func ThumbnailPath(filename string) string {
	return thumbnailsPrefix + "/" + filename
}

// TempPath returns the absolute local path of a transient upload file,
// e.g. for handing to exiftool.
func (l *Layout) TempPath(filename string) string {
	return filepath.Join(l.tempDir, filename)
}

func (l *Layout) SaveTemp(filename string, reader io.Reader) (int64, error) {
	file, err := os.Create(l.TempPath(filename))
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(file, reader)
	file.Close()
	return result, err
}

func (l *Layout) LoadTemp(filename string, writer io.Writer) (int64, error) {
	file, err := os.Open(l.TempPath(filename))
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(writer, file)
	file.Close()
	return result, err
}

func (l *Layout) DeleteTemp(filename string) {
	if err := os.Remove(l.TempPath(filename)); err != nil && !os.IsNotExist(err) {
		log.Printf("Temp file %s: delete error: %v", filename, err)
	}
}

// SweepTemp removes transient files older than the given age - orphans
// from crashed or abandoned uploads. The threshold is far longer than any
// plausible upload, so it cannot race an in-flight batch.
func (l *Layout) SweepTemp(olderThan time.Duration) (removed int) {
	entries, err := os.ReadDir(l.tempDir)
	if err != nil {
		log.Printf("Temp sweep: %v", err)
		return 0
	}
	cutoff := time.Now().Add(-olderThan)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err = os.Remove(filepath.Join(l.tempDir, entry.Name())); err != nil {
			log.Printf("Temp sweep: cannot remove %s: %v", entry.Name(), err)
			continue
		}
		log.Printf("Temp sweep: removed orphan %s", entry.Name())
		removed++
	}
	return
}

// SweepLoop runs the sweep on a fixed interval, independent of request
// traffic. Meant to be started with `go store.SweepLoop()`.
func (l *Layout) SweepLoop() {
	for {
		time.Sleep(SweepInterval)
		l.SweepTemp(TempMaxAge)
	}
}
