package app_test

import (
	"testing"
	"time"

	"champion-quiz/internal/app"
	"champion-quiz/internal/domain"
)

var (
	t1 = time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 = t1.Add(time.Hour)
	t3 = t2.Add(time.Hour)
)

func TestLeaderboardPrefersLocalRowWithinNickname(t *testing.T) {
	rows := []domain.LeaderboardRow{
		{DeviceID: "other", Nickname: "Ann", TotalScore: 55, UpdatedAt: t3},
		{DeviceID: "me", Nickname: " ann ", TotalScore: 40, UpdatedAt: t1},
		{DeviceID: "bob", Nickname: "Bob", TotalScore: 50, UpdatedAt: t2},
	}

	view := app.BuildLeaderboard(rows, "me", false)
	if len(view.Entries) != 2 {
		t.Fatalf("expected 2 entries after dedup, got %+v", view.Entries)
	}
	if view.Entries[0].DeviceID != "bob" || view.Entries[1].DeviceID != "me" {
		t.Fatalf("expected bob then me, got %+v", view.Entries)
	}
	if view.Me == nil || view.Me.TotalScore != 40 || view.Me.Rank != 2 || !view.Entries[1].Me {
		t.Fatalf("expected local row at rank 2 with 40, got %+v", view.Me)
	}
	if view.Missing {
		t.Fatalf("local row is present, missing must be false")
	}
}

func TestLeaderboardDedupWithoutLocalIdentity(t *testing.T) {
	rows := []domain.LeaderboardRow{
		{DeviceID: "a", Nickname: "Ann", TotalScore: 40, UpdatedAt: t3},
		{DeviceID: "b", Nickname: "ANN", TotalScore: 55, UpdatedAt: t1},
		{DeviceID: "c", Nickname: "Cy", TotalScore: 30, UpdatedAt: t1},
		{DeviceID: "d", Nickname: "Cy", TotalScore: 30, AvatarURL: "https://x/cy.png", UpdatedAt: t1},
		{DeviceID: "e", Nickname: "Di", TotalScore: 20, UpdatedAt: t1},
		{DeviceID: "f", Nickname: "Di", TotalScore: 20, CreatedAt: t2},
	}

	view := app.BuildLeaderboard(rows, "", false)
	got := deviceIDs(view)
	want := []string{"b", "d", "f"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if view.Me != nil || view.Missing {
		t.Fatalf("no local identity: expected no me and no missing flag")
	}
}

func TestLeaderboardSortsByScoreThenRecency(t *testing.T) {
	rows := []domain.LeaderboardRow{
		{DeviceID: "older", Nickname: "A", TotalScore: 50, UpdatedAt: t2},
		{DeviceID: "newer", Nickname: "B", TotalScore: 50, UpdatedAt: t3},
		{DeviceID: "low", Nickname: "C", TotalScore: 10, UpdatedAt: t3},
	}

	view := app.BuildLeaderboard(rows, "", false)
	got := deviceIDs(view)
	if got[0] != "newer" || got[1] != "older" || got[2] != "low" {
		t.Fatalf("unexpected order %v", got)
	}
	for i, e := range view.Entries {
		if e.Rank != i+1 {
			t.Fatalf("expected rank %d, got %d", i+1, e.Rank)
		}
	}
}

func TestLeaderboardTieBreakFallsBackToCreatedAt(t *testing.T) {
	rows := []domain.LeaderboardRow{
		{DeviceID: "updated", Nickname: "A", TotalScore: 50, UpdatedAt: t2},
		{DeviceID: "created-only", Nickname: "B", TotalScore: 50, CreatedAt: t3},
	}

	got := deviceIDs(app.BuildLeaderboard(rows, "", false))
	if len(got) != 2 || got[0] != "created-only" || got[1] != "updated" {
		t.Fatalf("expected creation time to break the tie, got %v", got)
	}
}

func TestLeaderboardMarksMissingLocalRow(t *testing.T) {
	rows := []domain.LeaderboardRow{{DeviceID: "x", Nickname: "X", TotalScore: 1}}

	view := app.BuildLeaderboard(rows, "me", false)
	if !view.Missing || view.Me != nil {
		t.Fatalf("expected missing local row, got %+v", view)
	}
}

func TestLeaderboardKeepsEmptyNicknamesApart(t *testing.T) {
	rows := []domain.LeaderboardRow{
		{DeviceID: "a", Nickname: "", TotalScore: 5},
		{DeviceID: "b", Nickname: "  ", TotalScore: 7},
	}
	if view := app.BuildLeaderboard(rows, "", false); len(view.Entries) != 2 {
		t.Fatalf("empty nicknames must not merge, got %+v", view.Entries)
	}
}

func TestLeaderboardShowAllSkipsDedup(t *testing.T) {
	rows := []domain.LeaderboardRow{
		{DeviceID: "a", Nickname: "Ann", TotalScore: 40},
		{DeviceID: "b", Nickname: "Ann", TotalScore: 55},
	}
	view := app.BuildLeaderboard(rows, "a", true)
	if len(view.Entries) != 2 || view.Entries[0].DeviceID != "b" {
		t.Fatalf("expected both rows sorted by score, got %+v", view.Entries)
	}
	if view.Me == nil || view.Me.DeviceID != "a" {
		t.Fatalf("expected local row marked, got %+v", view.Me)
	}
}

func deviceIDs(view app.LeaderboardView) []string {
	ids := make([]string, 0, len(view.Entries))
	for _, e := range view.Entries {
		ids = append(ids, e.DeviceID)
	}
	return ids
}
