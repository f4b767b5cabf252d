package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectTaskLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"tasklist"},
			want: []string{"tasklist"},
		},
		{
			name: "task id first token",
			in:   []string{"tasklist", "task-abc123"},
			want: []string{"tasklist", "tasks", "show", "task-abc123"},
		},
		{
			name: "task id after value flag",
			in:   []string{"tasklist", "--dir", "./tmp", "task-abc123"},
			want: []string{"tasklist", "--dir", "./tmp", "tasks", "show", "task-abc123"},
		},
		{
			name: "task id after equals flag",
			in:   []string{"tasklist", "--format=yaml", "task-abc123"},
			want: []string{"tasklist", "--format=yaml", "tasks", "show", "task-abc123"},
		},
		{
			name: "task id after bool flag",
			in:   []string{"tasklist", "--pretty", "task-abc123"},
			want: []string{"tasklist", "--pretty", "tasks", "show", "task-abc123"},
		},
		{
			name: "task id after double dash",
			in:   []string{"tasklist", "--", "task-abc123"},
			want: []string{"tasklist", "--", "tasks", "show", "task-abc123"},
		},
		{
			name: "subcommand not rewritten",
			in:   []string{"tasklist", "tasks", "show", "task-abc123"},
			want: []string{"tasklist", "tasks", "show", "task-abc123"},
		},
		{
			name: "bare prefix not rewritten",
			in:   []string{"tasklist", "task-"},
			want: []string{"tasklist", "task-"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectTaskLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v; want %v", got, tt.want)
			}
		})
	}
}
