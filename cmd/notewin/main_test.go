package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectNoteArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"notewin"},
			want: []string{"notewin"},
		},
		{
			name: "direct note id first token",
			in:   []string{"notewin", "note-abc123"},
			want: []string{"notewin", "open", "note-abc123"},
		},
		{
			name: "several note ids",
			in:   []string{"notewin", "note-abc123", "note-def456"},
			want: []string{"notewin", "open", "note-abc123", "note-def456"},
		},
		{
			name: "direct note id after value flag",
			in:   []string{"notewin", "--dir", "./tmp-test-ws", "note-abc123"},
			want: []string{"notewin", "--dir", "./tmp-test-ws", "open", "note-abc123"},
		},
		{
			name: "direct note id after equals flag",
			in:   []string{"notewin", "--dir=./tmp-test-ws", "note-abc123"},
			want: []string{"notewin", "--dir=./tmp-test-ws", "open", "note-abc123"},
		},
		{
			name: "direct note id after bool flag",
			in:   []string{"notewin", "--pretty", "note-abc123"},
			want: []string{"notewin", "--pretty", "open", "note-abc123"},
		},
		{
			name: "direct note id after double dash",
			in:   []string{"notewin", "--actor", "act-me", "--", "note-abc123"},
			want: []string{"notewin", "--actor", "act-me", "--", "open", "note-abc123"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"notewin", "notes", "show", "note-abc123"},
			want: []string{"notewin", "notes", "show", "note-abc123"},
		},
		{
			name: "bare prefix not rewritten",
			in:   []string{"notewin", "note-"},
			want: []string{"notewin", "note-"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectNoteArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectNoteArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
