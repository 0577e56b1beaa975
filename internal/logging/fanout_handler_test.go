package logging

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestNewFanoutHandlerCollapses(t *testing.T) {
	if _, ok := newFanoutHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every handler is nil")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := newFanoutHandler(nil, inner, nil); h != inner {
		t.Fatal("expected the single non-nil handler to be returned unwrapped")
	}
}

func TestFanoutHandlerDeliversToEveryHandler(t *testing.T) {
	var console, file bytes.Buffer
	h := newFanoutHandler(
		slog.NewTextHandler(&console, nil),
		slog.NewJSONHandler(&file, nil),
	)
	logger := slog.New(h).With(slog.String(FieldComponent, "store")).WithGroup("movie")
	logger.Info("created", slog.Int("id", 7))

	for name, buf := range map[string]*bytes.Buffer{"console": &console, "file": &file} {
		if !bytes.Contains(buf.Bytes(), []byte("created")) {
			t.Fatalf("%s handler missing message: %q", name, buf.String())
		}
		if !bytes.Contains(buf.Bytes(), []byte("store")) {
			t.Fatalf("%s handler missing component attr: %q", name, buf.String())
		}
	}
	if !bytes.Contains(file.Bytes(), []byte(`"movie":{"id":7}`)) {
		t.Fatalf("expected grouped attr in json output, got %q", file.String())
	}
}

func TestFanoutHandlerRespectsPerHandlerLevel(t *testing.T) {
	var infoBuf, debugBuf bytes.Buffer
	h := newFanoutHandler(
		slog.NewJSONHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	slog.New(h).Debug("snapshot published")

	if infoBuf.Len() != 0 {
		t.Fatalf("info handler received debug record: %q", infoBuf.String())
	}
	if debugBuf.Len() == 0 {
		t.Fatal("debug handler missed debug record")
	}
}
