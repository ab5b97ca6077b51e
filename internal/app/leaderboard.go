package app

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"champion-quiz/internal/domain"
)

// LeaderboardEntry is a displayable row.
type LeaderboardEntry struct {
	domain.LeaderboardRow
	Rank int  `json:"rank"`
	Me   bool `json:"me"`
}

// LeaderboardView is the merged board plus the local player's position.
type LeaderboardView struct {
	Entries []LeaderboardEntry `json:"entries"`
	Me      *LeaderboardEntry  `json:"me,omitempty"`
	// Missing is set when the local identity is known but has no row.
	Missing bool `json:"missing"`
}

// BuildLeaderboard de-duplicates rows by nickname (unless showAll), sorts
// them by total score then recency, and marks the local player's row.
func BuildLeaderboard(rows []domain.LeaderboardRow, localID string, showAll bool) LeaderboardView {
	var picked []domain.LeaderboardRow
	if showAll {
		picked = append(picked, rows...)
	} else {
		picked = dedupeByNickname(rows, localID)
	}

	sort.SliceStable(picked, func(i, j int) bool {
		if picked[i].TotalScore != picked[j].TotalScore {
			return picked[i].TotalScore > picked[j].TotalScore
		}
		return rowTime(picked[i]).After(rowTime(picked[j]))
	})

	view := LeaderboardView{Entries: make([]LeaderboardEntry, 0, len(picked))}
	for i, row := range picked {
		entry := LeaderboardEntry{
			LeaderboardRow: row,
			Rank:           i + 1,
			Me:             localID != "" && row.DeviceID == localID,
		}
		view.Entries = append(view.Entries, entry)
		if entry.Me && view.Me == nil {
			me := entry
			view.Me = &me
		}
	}
	view.Missing = localID != "" && view.Me == nil
	return view
}

func dedupeByNickname(rows []domain.LeaderboardRow, localID string) []domain.LeaderboardRow {
	order := make([]string, 0, len(rows))
	best := make(map[string]domain.LeaderboardRow, len(rows))
	for i, row := range rows {
		key := nicknameKey(row, i)
		current, ok := best[key]
		if !ok {
			order = append(order, key)
			best[key] = row
			continue
		}
		if preferRow(row, current, localID) {
			best[key] = row
		}
	}
	out := make([]domain.LeaderboardRow, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

func nicknameKey(row domain.LeaderboardRow, i int) string {
	name := strings.ToLower(strings.TrimSpace(row.Nickname))
	if name == "" {
		// NUL cannot appear in a trimmed nickname, so these never collide.
		return "\x00row:" + strconv.Itoa(i)
	}
	return name
}

// preferRow reports whether candidate should replace current within a group.
func preferRow(candidate, current domain.LeaderboardRow, localID string) bool {
	if localID != "" {
		candMine := candidate.DeviceID == localID
		curMine := current.DeviceID == localID
		if candMine != curMine {
			return candMine
		}
	}
	if candidate.TotalScore != current.TotalScore {
		return candidate.TotalScore > current.TotalScore
	}
	candAvatar := strings.TrimSpace(candidate.AvatarURL) != ""
	curAvatar := strings.TrimSpace(current.AvatarURL) != ""
	if candAvatar != curAvatar {
		return candAvatar
	}
	return rowTime(candidate).After(rowTime(current))
}

func rowTime(row domain.LeaderboardRow) time.Time {
	if !row.UpdatedAt.IsZero() {
		return row.UpdatedAt
	}
	return row.CreatedAt
}
