package cloudinary

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateImageFile(t *testing.T) {
	tests := []struct {
		name    string
		header  *multipart.FileHeader
		wantErr bool
	}{
		{"jpeg", &multipart.FileHeader{Filename: "pothole.JPG", Size: 1024}, false},
		{"heic from phone", &multipart.FileHeader{Filename: "IMG_0001.heic", Size: 4 << 20}, false},
		{"webp", &multipart.FileHeader{Filename: "a.webp", Size: 10}, false},
		{"too large", &multipart.FileHeader{Filename: "big.png", Size: MaxImageSize + 1}, true},
		{"gif rejected", &multipart.FileHeader{Filename: "anim.gif", Size: 10}, true},
		{"no extension", &multipart.FileHeader{Filename: "photo", Size: 10}, true},
		{"missing", nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateImageFile(tc.header)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewService_RequiresCredentials(t *testing.T) {
	_, err := NewService("", "key", "secret", "")
	require.Error(t, err)

	svc, err := NewService("demo", "key", "secret", "")
	require.NoError(t, err)
	require.Equal(t, "roadwatch", svc.uploadFolder)
}
