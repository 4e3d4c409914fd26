package models

import "testing"

func TestVisibilityValid(t *testing.T) {
	for _, v := range []Visibility{VisibilityPrivate, VisibilityUnlisted, VisibilityPublic} {
		if !v.Valid() {
			t.Errorf("%s should be valid", v)
		}
	}
	for _, v := range []Visibility{"", "PUBLIC", "hidden", "friends"} {
		if v.Valid() {
			t.Errorf("%q should not be valid", v)
		}
	}
}

func TestAlbumCanBeViewedBy(t *testing.T) {
	owner := &User{ID: 1, Role: RoleContributor}
	other := &User{ID: 2, Role: RoleContributor}
	admin := &User{ID: 3, Role: RoleAdmin}
	anon := &User{}

	tests := []struct {
		name       string
		visibility Visibility
		user       *User
		want       bool
	}{
		{"public for anonymous", VisibilityPublic, anon, true},
		{"public for nil user", VisibilityPublic, nil, true},
		{"public for stranger", VisibilityPublic, other, true},
		{"unlisted for anonymous", VisibilityUnlisted, anon, false},
		{"unlisted for stranger", VisibilityUnlisted, other, false},
		{"unlisted for owner", VisibilityUnlisted, owner, true},
		{"unlisted for admin", VisibilityUnlisted, admin, true},
		{"private for anonymous", VisibilityPrivate, anon, false},
		{"private for nil user", VisibilityPrivate, nil, false},
		{"private for stranger", VisibilityPrivate, other, false},
		{"private for owner", VisibilityPrivate, owner, true},
		{"private for admin", VisibilityPrivate, admin, true},
	}
	for _, test := range tests {
		album := &Album{ID: 10, UserID: 1, Visibility: test.visibility}
		if got := album.CanBeViewedBy(test.user); got != test.want {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
	}
}

func TestAlbumCanBeEditedBy(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want bool
	}{
		{"anonymous", &User{}, false},
		{"nil user", nil, false},
		{"owner but viewer tier", &User{ID: 1, Role: RoleViewer}, false},
		{"owner contributor", &User{ID: 1, Role: RoleContributor}, true},
		{"stranger contributor", &User{ID: 2, Role: RoleContributor}, false},
		{"admin non-owner", &User{ID: 3, Role: RoleAdmin}, true},
	}
	for _, test := range tests {
		album := &Album{ID: 10, UserID: 1, Visibility: VisibilityPrivate}
		if got := album.CanBeEditedBy(test.user); got != test.want {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
	}
}

func TestPhotoAccessFollowsAlbum(t *testing.T) {
	photo := Photo{
		ID:      5,
		AlbumID: 10,
		Album:   Album{ID: 10, UserID: 1, Visibility: VisibilityPrivate},
	}
	owner := &User{ID: 1, Role: RoleContributor}
	stranger := &User{ID: 2, Role: RoleContributor}
	if !photo.CanBeViewedBy(owner) {
		t.Error("owner should see their private photo")
	}
	if photo.CanBeViewedBy(stranger) {
		t.Error("stranger should not see a private photo")
	}
	if !photo.CanBeEditedBy(owner) {
		t.Error("owner contributor should edit their photo")
	}
	if photo.CanBeEditedBy(stranger) {
		t.Error("stranger should not edit a foreign photo")
	}
}
