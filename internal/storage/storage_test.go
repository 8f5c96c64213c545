package storage

import (
	"encoding/base64"
	"testing"
)

func TestIsDataURI(t *testing.T) {
	if !IsDataURI("data:image/png;base64,AAAA") {
		t.Error("Expected data URI to be recognized")
	}
	if IsDataURI("https://example.com/card.png") {
		t.Error("URL should not be treated as a data URI")
	}
	if IsDataURI("") {
		t.Error("Empty string is not a data URI")
	}
}

func TestParseDataURI(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	data, contentType, ext, err := ParseDataURI(uri)
	if err != nil {
		t.Fatalf("ParseDataURI failed: %v", err)
	}
	if string(data) != string(payload) {
		t.Error("Decoded bytes should match the payload")
	}
	if contentType != "image/png" {
		t.Errorf("Expected image/png, got %q", contentType)
	}
	if ext != ".png" {
		t.Errorf("Expected .png, got %q", ext)
	}
}

func TestParseDataURIJPEG(t *testing.T) {
	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpg"))
	_, contentType, ext, err := ParseDataURI(uri)
	if err != nil {
		t.Fatalf("ParseDataURI failed: %v", err)
	}
	if contentType != "image/jpeg" || ext != ".jpg" {
		t.Errorf("Expected image/jpeg/.jpg, got %q %q", contentType, ext)
	}
}

func TestParseDataURIUnknownMime(t *testing.T) {
	uri := "data:application/x-card;base64," + base64.StdEncoding.EncodeToString([]byte("x"))
	_, contentType, ext, err := ParseDataURI(uri)
	if err != nil {
		t.Fatalf("ParseDataURI failed: %v", err)
	}
	if contentType != "application/x-card" {
		t.Errorf("Expected application/x-card, got %q", contentType)
	}
	if ext != "" {
		t.Errorf("Unknown mime should keep an empty extension, got %q", ext)
	}
}

func TestParseDataURIErrors(t *testing.T) {
	cases := []string{
		"https://example.com/card.png",
		"data:image/png;base64",       // no comma
		"data:image/png;base64,!!!!-", // bad base64
	}
	for _, uri := range cases {
		if _, _, _, err := ParseDataURI(uri); err == nil {
			t.Errorf("Expected error for %q", uri)
		}
	}
}
