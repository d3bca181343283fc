package leaderboard

import (
	"sort"

	"github.com/xyz-asif/roadwatch/internal/features/auth"
)

// Rank orders users by points, highest first, ties by username.
func Rank(users []auth.PublicUser) []auth.PublicUser {
	out := make([]auth.PublicUser, len(users))
	copy(out, users)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].Username < out[j].Username
	})
	return out
}

// BuildBoard ranks users and splits off the podium. Ranks start at 1 and the
// first entry after the podium has rank PodiumSize+1.
func BuildBoard(users []auth.PublicUser) Board {
	ranked := Rank(users)
	board := Board{Podium: []Entry{}, Entries: []Entry{}}
	for i, u := range ranked {
		e := Entry{Rank: i + 1, PublicUser: u}
		if i < PodiumSize {
			board.Podium = append(board.Podium, e)
			continue
		}
		board.Entries = append(board.Entries, e)
	}
	return board
}

// Page cuts one page out of the entries after the podium.
func (b Board) Page(page, limit int) PageResponse {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	n := len(b.Entries)
	start := n
	if page-1 < n/limit+1 {
		start = min((page-1)*limit, n)
	}
	end := n
	if limit < n-start {
		end = start + limit
	}

	return PageResponse{
		Podium:  b.Podium,
		Entries: b.Entries[start:end],
		Total:   n,
		Page:    page,
		Limit:   limit,
		HasNext: end < n,
	}
}
