package filediff

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-github/v71/github"
)

func TestResolveRange(t *testing.T) {
	tests := []struct {
		name    string
		event   string
		payload string
		want    Range
	}{
		{
			name:    "pull request",
			event:   "pull_request",
			payload: `{"pull_request": {"base": {"sha": "b1"}, "head": {"sha": "h1"}}}`,
			want:    Range{Base: "b1", Head: "h1"},
		},
		{
			name:    "push",
			event:   "push",
			payload: `{"before": "b2", "after": "h2"}`,
			want:    Range{Base: "b2", Head: "h2"},
		},
		{
			name:    "new branch with base_ref",
			event:   "push",
			payload: `{"before": "0000000000000000000000000000000000000000", "after": "h3", "base_ref": "refs/heads/main"}`,
			want:    Range{Base: "refs/heads/main", Head: "h3"},
		},
		{
			name:    "new branch falls back to default branch",
			event:   "push",
			payload: `{"before": "0000000000000000000000000000000000000000", "after": "h4", "repository": {"default_branch": "master"}}`,
			want:    Range{Base: "master", Head: "h4"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveRange(tt.event, []byte(tt.payload))
			if err != nil {
				t.Fatalf("ResolveRange: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("range mismatch:\n%s", diff)
			}
		})
	}
}

func TestResolveRange_UnsupportedEvent(t *testing.T) {
	_, err := ResolveRange("workflow_dispatch", []byte(`{}`))
	if !errors.Is(err, ErrUnsupportedEvent) {
		t.Fatalf("expected ErrUnsupportedEvent, got %v", err)
	}
}

type fakeComparer struct {
	files []*github.CommitFile
	err   error
	got   [2]string
}

func (f *fakeComparer) CompareFiles(_ context.Context, _, _, base, head string) ([]*github.CommitFile, error) {
	f.got = [2]string{base, head}
	return f.files, f.err
}

func TestChangedFiles_FiltersStatus(t *testing.T) {
	fc := &fakeComparer{files: []*github.CommitFile{
		{Filename: github.Ptr("contracts/Alpha/mission.sqm"), Status: github.Ptr("modified")},
		{Filename: github.Ptr("contracts/Bravo/mission.sqm"), Status: github.Ptr("removed")},
		{Filename: github.Ptr("contracts/Charlie/edit_me/description.ext"), Status: github.Ptr("added")},
		{Filename: github.Ptr("contracts/Delta/mission.sqm"), Status: github.Ptr("renamed")},
	}}

	svc := NewService(fc, "o", "r", nil)
	got, err := svc.ChangedFiles(context.Background(), Range{Base: "b", Head: "h"})
	if err != nil {
		t.Fatalf("ChangedFiles: %v", err)
	}
	want := []string{"contracts/Alpha/mission.sqm", "contracts/Charlie/edit_me/description.ext"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("files mismatch:\n%s", diff)
	}
	if fc.got != [2]string{"b", "h"} {
		t.Errorf("compared %v, want [b h]", fc.got)
	}
}

func TestChangedFiles_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&fakeComparer{err: boom}, "o", "r", nil)
	if _, err := svc.ChangedFiles(context.Background(), Range{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}
