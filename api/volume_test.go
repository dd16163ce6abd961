package api_test

import (
	"encoding/json"
	"net/http"
	"testing"
)

func readVolume(t *testing.T, resp *http.Response) float64 {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode volume: %v", err)
	}
	return body["volume"]
}

func TestVolumeDefault(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/volume")
	if err != nil {
		t.Fatal(err)
	}
	if v := readVolume(t, resp); v != 0.3 {
		t.Fatalf("expected default 0.3, got %v", v)
	}
}

func TestPutVolumeClamps(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/volume", `{"volume":0.7}`)
	if v := readVolume(t, resp); v != 0.7 {
		t.Fatalf("expected 0.7, got %v", v)
	}
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/volume", `{"volume":5}`)
	if v := readVolume(t, resp); v != 1 {
		t.Fatalf("expected clamp to 1, got %v", v)
	}

	get, err := http.Get(srv.URL + "/api/volume")
	if err != nil {
		t.Fatal(err)
	}
	if v := readVolume(t, get); v != 1 {
		t.Fatalf("expected stored 1, got %v", v)
	}
}

func TestPutVolumeBadBody(t *testing.T) {
	srv := newTestServer(t)

	for _, body := range []string{"not-json", `{}`, `{"volume":"abc"}`} {
		resp := doJSON(t, http.MethodPut, srv.URL+"/api/volume", body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, resp.StatusCode)
		}
	}
}
