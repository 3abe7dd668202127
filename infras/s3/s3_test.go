package s3_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"innkeep/config"
	"innkeep/infras/otel/mocks"
	"innkeep/infras/s3"
)

func TestObjectKeyFromURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.External.S3.BucketName = "innkeep"
	cfg.External.S3.PublicDomain = "https://cdn.innkeep.test/"
	cfg.External.S3.APIEndpoint = "https://storage.innkeep.test"
	cfg.External.S3.Region = "auto"

	client := s3.New(cfg, mocks.NewOtel())

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "public domain", url: "https://cdn.innkeep.test/rooms/r1/photo.jpg", want: "rooms/r1/photo.jpg"},
		{name: "api endpoint", url: "https://storage.innkeep.test/innkeep/rooms/r1/photo.jpg", want: "rooms/r1/photo.jpg"},
		{name: "foreign", url: "https://elsewhere.test/photo.jpg", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, client.ObjectKeyFromURL(tt.url))
		})
	}
}
