package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"photoframer/models"

	"github.com/gin-gonic/gin"
)

// Field validation runs before any lookup, so these requests never reach
// the database.
func TestPhotoUpdateFieldLimits(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api := &API{}
	editor := &models.User{ID: 1, Role: models.RoleContributor}
	tests := []struct {
		name string
		body string
	}{
		{"title too long", `{"title":"` + strings.Repeat("a", models.PhotoTitleMaxLen+1) + `"}`},
		{"caption too long", `{"caption":"` + strings.Repeat("a", models.PhotoCaptionMaxLen+1) + `"}`},
		{"alt text too long", `{"alt_text":"` + strings.Repeat("a", models.PhotoAltTextMaxLen+1) + `"}`},
		{"license too long", `{"license":"` + strings.Repeat("a", models.PhotoLicenseMaxLen+1) + `"}`},
		{"not json", `title=x`},
	}
	for _, test := range tests {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest("PUT", "/api/photos/1", strings.NewReader(test.body))
		c.Request.Header.Set("Content-Type", "application/json")
		api.PhotoUpdate(c, editor)
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want %d", test.name, recorder.Code, http.StatusBadRequest)
		}
	}
}
