package processing

import (
	"bytes"
	"image"
	"image/jpeg"
	"path/filepath"
	"testing"

	"photoframer/models"
	"photoframer/storage"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testPipeline(t *testing.T) (*Pipeline, *models.Album, *models.User) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err = models.Init(db); err != nil {
		t.Fatal(err)
	}
	base := t.TempDir()
	files, err := storage.NewDiskStorage(base)
	if err != nil {
		t.Fatal(err)
	}
	layout, err := storage.NewLayout(files, filepath.Join(base, "temp"))
	if err != nil {
		t.Fatal(err)
	}
	user, err := models.UserCreate(db, "tester", "tester@example.com", "password123", models.RoleContributor)
	if err != nil {
		t.Fatal(err)
	}
	album := models.Album{
		UserID:             user.ID,
		Name:               "Pipeline Test",
		Visibility:         models.VisibilityPrivate,
		CompressionEnabled: true,
		ThumbQuality:       80,
	}
	if err = models.AlbumCreate(db, &album); err != nil {
		t.Fatal(err)
	}
	return &Pipeline{DB: db, Store: layout}, &album, &user
}

func jpegBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, image.NewRGBA(image.Rect(0, 0, width, height)), nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPipelineProcess(t *testing.T) {
	pipeline, album, user := testPipeline(t)
	good := jpegBytes(t, 1200, 900)
	if _, err := pipeline.Store.SaveTemp("good.jpg", bytes.NewReader(good)); err != nil {
		t.Fatal(err)
	}
	created := pipeline.Process(album, user, []IncomingFile{
		{OriginalName: "vacation.jpg", MimeType: "image/jpeg", StoredName: "good.jpg"},
	})
	if len(created) != 1 {
		t.Fatalf("created %d photos, want 1", len(created))
	}
	photo := created[0]
	if photo.Width != 1200 || photo.Height != 900 {
		t.Errorf("wrong dimensions recorded: %dx%d", photo.Width, photo.Height)
	}
	if photo.Size != int64(len(good)) {
		t.Errorf("wrong size recorded: %d, want %d", photo.Size, len(good))
	}
	if photo.License != models.DefaultLicense {
		t.Errorf("wrong default license: %q", photo.License)
	}
	// Original bytes must be untouched
	out := &bytes.Buffer{}
	if _, err := pipeline.Store.Files.Load(photo.Path, out); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Bytes(), good) {
		t.Error("stored original differs from the upload")
	}
	if pipeline.Store.Files.GetSize(photo.ThumbPath) <= 0 {
		t.Error("thumbnail missing")
	}
	// Temp artifact is gone
	if _, err := pipeline.Store.LoadTemp("good.jpg", &bytes.Buffer{}); err == nil {
		t.Error("temp file should be removed after processing")
	}
	// First photo becomes the album cover
	var reloaded models.Album
	if err := pipeline.DB.First(&reloaded, album.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.CoverPhotoID == nil || *reloaded.CoverPhotoID != photo.ID {
		t.Errorf("cover not assigned: %v", reloaded.CoverPhotoID)
	}
}

func TestPipelineFailureIsolation(t *testing.T) {
	pipeline, album, user := testPipeline(t)
	if _, err := pipeline.Store.SaveTemp("bad.jpg", bytes.NewReader([]byte("not a jpeg at all"))); err != nil {
		t.Fatal(err)
	}
	if _, err := pipeline.Store.SaveTemp("good.jpg", bytes.NewReader(jpegBytes(t, 100, 100))); err != nil {
		t.Fatal(err)
	}
	created := pipeline.Process(album, user, []IncomingFile{
		{OriginalName: "bad.jpg", MimeType: "image/jpeg", StoredName: "bad.jpg"},
		{OriginalName: "good.jpg", MimeType: "image/jpeg", StoredName: "good.jpg"},
	})
	if len(created) != 1 || created[0].OriginalName != "good.jpg" {
		t.Fatalf("bad file must not take its siblings down: %+v", created)
	}
	// The reject left nothing behind
	var count int64
	pipeline.DB.Model(&models.Photo{}).Count(&count)
	if count != 1 {
		t.Errorf("%d photo rows, want 1", count)
	}
	if _, err := pipeline.Store.LoadTemp("bad.jpg", &bytes.Buffer{}); err == nil {
		t.Error("rejected temp file should still be cleaned up")
	}
}

func TestPipelineBatchWithRenamedTextFile(t *testing.T) {
	pipeline, album, owner := testPipeline(t)
	batch := []IncomingFile{}
	for i, content := range [][]byte{
		jpegBytes(t, 200, 150),
		[]byte("plain text renamed to photo.jpg"),
		jpegBytes(t, 300, 200),
	} {
		stored := models.NewStoredFilename("trip.jpg")
		if _, err := pipeline.Store.SaveTemp(stored, bytes.NewReader(content)); err != nil {
			t.Fatal(err)
		}
		batch = append(batch, IncomingFile{
			OriginalName: []string{"one.jpg", "two.jpg", "three.jpg"}[i],
			MimeType:     "image/jpeg",
			StoredName:   stored,
		})
	}
	created := pipeline.Process(album, owner, batch)
	if len(created) != 2 {
		t.Fatalf("created %d photos, want 2", len(created))
	}
	viewer := &models.User{ID: owner.ID + 1, Role: models.RoleViewer}
	if album.CanBeViewedBy(viewer) {
		t.Error("a private album must be hidden from other users")
	}
	if !album.CanBeViewedBy(owner) {
		t.Error("the owner must see their private album")
	}
}

func TestPipelineMagicMismatch(t *testing.T) {
	pipeline, album, user := testPipeline(t)
	// Real PNG content claiming to be JPEG
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}
	if _, err := pipeline.Store.SaveTemp("fake.jpg", bytes.NewReader(png)); err != nil {
		t.Fatal(err)
	}
	created := pipeline.Process(album, user, []IncomingFile{
		{OriginalName: "fake.jpg", MimeType: "image/jpeg", StoredName: "fake.jpg"},
	})
	if len(created) != 0 {
		t.Fatal("mismatched content must be rejected")
	}
}
