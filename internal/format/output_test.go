package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type textSample struct{ sample }

func (t textSample) Text() string { return t.Name }

func TestWrite(t *testing.T) {
	v := sample{Name: "groceries", Count: 2}
	cases := []struct {
		format string
		want   string
	}{
		{"", "{\"name\":\"groceries\",\"count\":2}\n"},
		{"json", "{\"name\":\"groceries\",\"count\":2}\n"},
		{"yaml", "count: 2\nname: groceries\n"},
		{"text", "count: 2\nname: groceries\n"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		if err := Write(&buf, v, tc.format, false); err != nil {
			t.Fatalf("Write(%q): %v", tc.format, err)
		}
		if got := buf.String(); got != tc.want {
			t.Fatalf("Write(%q) = %q; want %q", tc.format, got, tc.want)
		}
	}

	var buf bytes.Buffer
	if err := Write(&buf, textSample{v}, "TEXT", false); err != nil {
		t.Fatalf("Write text: %v", err)
	}
	if buf.String() != "groceries\n" {
		t.Fatalf("text = %q", buf.String())
	}

	if err := Write(&buf, v, "edn", false); err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
	if Valid("xml") || !Valid("yaml") {
		t.Fatalf("Valid mismatch")
	}
}

func TestWriteJSON_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, map[string]int{"a": 1}, true); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if buf.String() != "{\n  \"a\": 1\n}\n" {
		t.Fatalf("pretty = %q", buf.String())
	}
}
