package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_OpenGraphTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head>
			<title>Fallback title</title>
			<meta property="og:title" content="Интерстеллар">
			<meta property="og:description" content="Через тернии к звёздам.">
		</head><body></body></html>`)
	}))
	defer server.Close()

	svc := NewMetadataService(nil)

	meta, err := svc.Extract(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "Интерстеллар", *meta.Title)
	assert.Equal(t, "Через тернии к звёздам.", *meta.Overview)
	assert.Nil(t, meta.PosterURL)
}

func TestExtract_FallsBackToTitleTag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head>
			<title>  Plain page  </title>
			<meta name="description" content="Plain description">
		</head><body></body></html>`)
	}))
	defer server.Close()

	svc := NewMetadataService(nil)

	meta, err := svc.Extract(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "Plain page", *meta.Title)
	assert.Equal(t, "Plain description", *meta.Overview)
}

func TestExtract_Non200Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewMetadataService(nil)

	_, err := svc.Extract(context.Background(), server.URL)

	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUrlExtension(t *testing.T) {
	assert.Equal(t, "jpg", urlExtension("https://example.com/poster.jpg"))
	assert.Equal(t, "png", urlExtension("https://example.com/a/b/image.png?width=500"))
	assert.Equal(t, "", urlExtension("https://example.com/no-extension"))
	assert.Equal(t, "", urlExtension("https://example.com/trailing."))
}
