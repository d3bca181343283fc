package leaderboard

import (
	"github.com/xyz-asif/roadwatch/internal/features/auth"
)

// PodiumSize is the number of leading users shown apart from the list.
const PodiumSize = 3

// Entry is one ranked user.
type Entry struct {
	Rank int `json:"rank" example:"4"`
	auth.PublicUser
}

// Board is the ranking split into the podium and the remaining entries.
type Board struct {
	Podium  []Entry `json:"podium"`
	Entries []Entry `json:"entries"`
}

// PageResponse is a page of the board. The podium is always included.
type PageResponse struct {
	Podium  []Entry `json:"podium"`
	Entries []Entry `json:"entries"`
	Total   int     `json:"total" example:"42"`
	Page    int     `json:"page" example:"1"`
	Limit   int     `json:"limit" example:"20"`
	HasNext bool    `json:"hasNext"`
}
