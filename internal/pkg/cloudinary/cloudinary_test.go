package cloudinary

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImageFile(t *testing.T) {
	tests := []struct {
		name    string
		header  multipart.FileHeader
		wantErr bool
	}{
		{"png ok", multipart.FileHeader{Filename: "a.PNG", Size: 1024}, false},
		{"webp ok", multipart.FileHeader{Filename: "photo.webp", Size: MaxImageSize}, false},
		{"too large", multipart.FileHeader{Filename: "a.jpg", Size: MaxImageSize + 1}, true},
		{"bad ext", multipart.FileHeader{Filename: "a.exe", Size: 10}, true},
		{"no ext", multipart.FileHeader{Filename: "avatar", Size: 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageFile(&tt.header)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewService_RequiresCredentials(t *testing.T) {
	_, err := NewService("", "key", "secret", "")
	assert.Error(t, err)
}
