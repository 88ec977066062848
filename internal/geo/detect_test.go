package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testDetector(url string) *Detector {
	d := NewDetector()
	d.URL = url
	return d
}

func TestNewDetector(t *testing.T) {
	d := NewDetector()
	if d.URL != DefaultURL {
		t.Errorf("URL = %q, want %q", d.URL, DefaultURL)
	}
	if d.Client == nil || d.Client.Timeout == 0 {
		t.Error("client should have a timeout")
	}
}

func TestDetect_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := ipAPIResponse{
			Status:   "success",
			Lat:      21.4225,
			Lon:      39.8262,
			City:     "Mecca",
			Country:  "Saudi Arabia",
			Timezone: "Asia/Riyadh",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	loc, err := testDetector(server.URL).Detect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Latitude != 21.4225 {
		t.Errorf("Latitude = %v, want %v", loc.Latitude, 21.4225)
	}
	if loc.Longitude != 39.8262 {
		t.Errorf("Longitude = %v, want %v", loc.Longitude, 39.8262)
	}
	if loc.City != "Mecca" {
		t.Errorf("City = %q, want %q", loc.City, "Mecca")
	}
	if loc.Country != "Saudi Arabia" {
		t.Errorf("Country = %q, want %q", loc.Country, "Saudi Arabia")
	}
	if loc.Timezone != "Asia/Riyadh" {
		t.Errorf("Timezone = %q, want %q", loc.Timezone, "Asia/Riyadh")
	}
}

func TestDetect_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "api reports failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(ipAPIResponse{Status: "fail", Message: "private range"})
			},
			wantErr: "private range",
		},
		{
			name: "http error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusInternalServerError)
			},
			wantErr: "500",
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("{"))
			},
			wantErr: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := testDetector(server.URL).Detect(context.Background())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestDetect_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	if _, err := testDetector(url).Detect(context.Background()); err == nil {
		t.Fatal("expected error for closed server, got nil")
	}
}
