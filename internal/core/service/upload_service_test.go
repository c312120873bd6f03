package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/macapp/admin-console/internal/core/domain"
	"github.com/macapp/admin-console/internal/core/ports"
)

func TestUploadService_UploadIcon(t *testing.T) {
	store := &stubStorage{}
	svc := NewUploadService(store, zerolog.Nop())
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	res, err := svc.UploadIcon(context.Background(), ports.IconUpload{
		FileName:    "my icon (1).png",
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("data"),
	})
	if err != nil {
		t.Fatalf("UploadIcon returned error: %v", err)
	}
	if !regexp.MustCompile(`^icons/app/1700000000000-[0-9a-f]{6}my_icon__1_\.png$`).MatchString(res.Key) {
		t.Fatalf("unexpected key: %q", res.Key)
	}
	if res.URL != "https://cdn.example.com/"+res.Key {
		t.Fatalf("unexpected url: %q", res.URL)
	}
	if string(store.objects[res.Key]) != "data" {
		t.Fatalf("object not stored")
	}
}

func TestUploadService_Rejects(t *testing.T) {
	svc := NewUploadService(&stubStorage{}, zerolog.Nop())
	cases := map[string]ports.IconUpload{
		"type": {FileName: "a.svg", ContentType: "image/svg+xml", Size: 1, Body: strings.NewReader("x")},
		"size": {FileName: "a.png", ContentType: "image/png", Size: MaxIconSize + 1, Body: strings.NewReader("x")},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.UploadIcon(context.Background(), in)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUploadService_NoStorage(t *testing.T) {
	svc := NewUploadService(nil, zerolog.Nop())

	_, err := svc.UploadIcon(context.Background(), ports.IconUpload{ContentType: "image/png", Size: 1, Body: strings.NewReader("x")})
	if err != domain.ErrStorageUnavailable {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestUploadService_HeadFailure(t *testing.T) {
	svc := NewUploadService(&stubStorage{headErr: errors.New("404")}, zerolog.Nop())

	_, err := svc.UploadIcon(context.Background(), ports.IconUpload{FileName: "a.png", ContentType: "image/png", Size: 1, Body: strings.NewReader("x")})
	if err == nil || !strings.Contains(err.Error(), "verify icon") {
		t.Fatalf("expected verification error, got %v", err)
	}
}
