package landmark

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gowvp/wink/internal/conf"
	"github.com/gowvp/wink/internal/core/vision"
)

func TestDetect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Frame-Orientation") != "leftMirrored" {
			t.Errorf("orientation header = %q", r.Header.Get("X-Frame-Orientation"))
		}
		w.Write([]byte(`{"faces":[{"bounding_box":{"x":0.1,"y":0.2,"width":0.3,"height":0.4},"left_eye":[{"x":0.5,"y":0.5}]}]}`))
	}))
	defer srv.Close()

	cli := NewClient(conf.Detector{URL: srv.URL})
	obs, err := cli.Detect(context.Background(), &vision.Frame{Data: []byte{1}, Orientation: "leftMirrored"})
	if err != nil {
		t.Fatal(err)
	}
	if obs == nil {
		t.Fatal("expected observation")
	}
	if obs.BoundingBox.Width != 0.3 {
		t.Fatalf("box = %+v", obs.BoundingBox)
	}
	if len(obs.LeftEye) != 1 || obs.RightEye != nil {
		t.Fatalf("contours = %+v / %+v", obs.LeftEye, obs.RightEye)
	}
}

func TestDetectNoFace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"faces":[]}`))
	}))
	defer srv.Close()

	cli := NewClient(conf.Detector{URL: srv.URL})
	obs, err := cli.Detect(context.Background(), &vision.Frame{Data: []byte{1}})
	if err != nil {
		t.Fatal(err)
	}
	if obs != nil {
		t.Fatalf("obs = %+v, want nil", obs)
	}
}

func TestDetectServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cli := NewClient(conf.Detector{URL: srv.URL})
	if _, err := cli.Detect(context.Background(), &vision.Frame{Data: []byte{1}}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
