package gstadapter

import (
	"errors"
	"testing"
)

type fakeSink struct {
	props map[string]interface{}
	fail  string
}

func (f *fakeSink) SetProperty(name string, value interface{}) error {
	if name == f.fail {
		return errors.New("no such property")
	}
	f.props[name] = value
	return nil
}

func TestTuneSinkLatestOnly(t *testing.T) {
	sink := &fakeSink{props: make(map[string]interface{})}
	if err := tuneSinkLatestOnly(sink); err != nil {
		t.Fatal(err)
	}

	if v, ok := sink.props["sync"]; !ok || v != false {
		t.Fatalf("sync = %v, want false", v)
	}
	if v, ok := sink.props["max-buffers"]; !ok || v != 1 {
		t.Fatalf("max-buffers = %v, want 1", v)
	}
	if v, ok := sink.props["drop"]; !ok || v != true {
		t.Fatalf("drop = %v, want true", v)
	}
}

func TestTuneSinkLatestOnlyPropagatesError(t *testing.T) {
	sink := &fakeSink{props: make(map[string]interface{}), fail: "max-buffers"}
	if err := tuneSinkLatestOnly(sink); err == nil {
		t.Fatal("expected error from property write")
	}
}
