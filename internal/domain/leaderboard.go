package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// SeasonEntry is one season's published columns on a leaderboard row.
type SeasonEntry struct {
	ChampURL string `json:"champ_url,omitempty"`
	Score    int    `json:"score"`
	Total    int    `json:"total"`
}

// LeaderboardRow is a row owned by the remote service. Per-season columns
// arrive flattened as <short>_champ_url, <short>_score and <short>_total.
type LeaderboardRow struct {
	DeviceID   string                 `json:"device_id"`
	Nickname   string                 `json:"nickname"`
	AvatarURL  string                 `json:"avatar_url,omitempty"`
	Seasons    map[string]SeasonEntry `json:"seasons,omitempty"`
	TotalScore int                    `json:"total_score"`
	UpdatedAt  time.Time              `json:"updated_at"`
	CreatedAt  time.Time              `json:"created_at"`
}

var seasonColumnSuffixes = []string{"_champ_url", "_score", "_total"}

// UnmarshalJSON decodes the flattened wire row. Unknown or mistyped columns
// are ignored rather than failing the whole page of rows.
func (r *LeaderboardRow) UnmarshalJSON(data []byte) error {
	var cols map[string]json.RawMessage
	if err := json.Unmarshal(data, &cols); err != nil {
		return err
	}
	*r = LeaderboardRow{}
	for col, raw := range cols {
		switch col {
		case "device_id":
			r.DeviceID = rawString(raw)
		case "nickname":
			r.Nickname = rawString(raw)
		case "avatar_url":
			r.AvatarURL = rawString(raw)
		case "total_score":
			r.TotalScore = rawInt(raw)
		case "updated_at":
			r.UpdatedAt = rawTime(raw)
		case "created_at":
			r.CreatedAt = rawTime(raw)
		case "seasons":
			var seasons map[string]SeasonEntry
			if json.Unmarshal(raw, &seasons) == nil {
				for k, v := range seasons {
					r.setSeason(k, func(e *SeasonEntry) { *e = v })
				}
			}
		default:
			r.decodeSeasonColumn(col, raw)
		}
	}
	return nil
}

func (r *LeaderboardRow) decodeSeasonColumn(col string, raw json.RawMessage) {
	for _, suffix := range seasonColumnSuffixes {
		short, ok := strings.CutSuffix(col, suffix)
		if !ok || short == "" {
			continue
		}
		switch suffix {
		case "_champ_url":
			if v := rawString(raw); v != "" {
				r.setSeason(short, func(e *SeasonEntry) { e.ChampURL = v })
			}
		case "_score":
			r.setSeason(short, func(e *SeasonEntry) { e.Score = rawInt(raw) })
		case "_total":
			r.setSeason(short, func(e *SeasonEntry) { e.Total = rawInt(raw) })
		}
		return
	}
}

func (r *LeaderboardRow) setSeason(short string, fn func(*SeasonEntry)) {
	if r.Seasons == nil {
		r.Seasons = make(map[string]SeasonEntry)
	}
	entry := r.Seasons[short]
	fn(&entry)
	r.Seasons[short] = entry
}

func rawString(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func rawInt(raw json.RawMessage) int {
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return int(f)
	}
	if n, err := strconv.Atoi(rawString(raw)); err == nil {
		return n
	}
	return 0
}

func rawTime(raw json.RawMessage) time.Time {
	s := rawString(raw)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05.999999-07"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
