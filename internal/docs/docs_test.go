package docs

import (
	"reflect"
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	got := Topics()
	want := []string{"config", "ordering", "paste", "undo"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Topics() = %v; want %v", got, want)
	}
}

func TestGet(t *testing.T) {
	body, ok := Get(" Ordering ")
	if !ok || !strings.HasPrefix(body, "# Ordering") {
		t.Fatalf("Get(ordering) = %q, %v", body, ok)
	}
	for _, topic := range []string{"", "nope", "../docs", "content/undo"} {
		if _, ok := Get(topic); ok {
			t.Fatalf("Get(%q) should fail", topic)
		}
	}
}
