package leaderboard

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyz-asif/roadwatch/internal/features/auth"
	"github.com/xyz-asif/roadwatch/internal/pkg/pagination"
)

func users(points ...int) []auth.PublicUser {
	out := make([]auth.PublicUser, len(points))
	for i, p := range points {
		out[i] = auth.PublicUser{Username: fmt.Sprintf("user%02d", i), Points: p}
	}
	return out
}

func TestBuildBoard_PodiumAndEntries(t *testing.T) {
	board := BuildBoard(users(5, 40, 12, 40, 0, 7))

	require.Len(t, board.Podium, 3)
	assert.Equal(t, 1, board.Podium[0].Rank)
	assert.Equal(t, "user01", board.Podium[0].Username)
	assert.Equal(t, "user03", board.Podium[1].Username)
	assert.Equal(t, 12, board.Podium[2].Points)

	require.Len(t, board.Entries, 3)
	assert.Equal(t, 4, board.Entries[0].Rank)
	assert.Equal(t, 7, board.Entries[0].Points)
	assert.Equal(t, 6, board.Entries[2].Rank)
}

func TestBuildBoard_Small(t *testing.T) {
	board := BuildBoard(users(3, 9))
	assert.Len(t, board.Podium, 2)
	assert.Empty(t, board.Entries)

	board = BuildBoard(nil)
	assert.NotNil(t, board.Podium)
	assert.NotNil(t, board.Entries)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := users(1, 2, 3)
	_ = Rank(in)
	assert.Equal(t, "user00", in[0].Username)
}

func TestBoardPage(t *testing.T) {
	board := BuildBoard(users(10, 9, 8, 7, 6, 5, 4, 3))

	p := board.Page(1, 2)
	assert.Equal(t, 5, p.Total)
	require.Len(t, p.Entries, 2)
	assert.Equal(t, 4, p.Entries[0].Rank)
	assert.True(t, p.HasNext)
	assert.Len(t, p.Podium, 3)

	p = board.Page(3, 2)
	require.Len(t, p.Entries, 1)
	assert.Equal(t, 8, p.Entries[0].Rank)
	assert.False(t, p.HasNext)

	p = board.Page(9, 2)
	assert.Empty(t, p.Entries)
}

func TestBoardPage_HugePage(t *testing.T) {
	board := BuildBoard(users(6, 5, 4, 3, 2, 1))

	req := pagination.FromRequest("92233720368547760", "100")
	var p PageResponse
	require.NotPanics(t, func() { p = board.Page(req.Page, req.Limit) })
	assert.Empty(t, p.Entries)
	assert.Equal(t, 3, p.Total)
	assert.False(t, p.HasNext)

	require.NotPanics(t, func() { p = board.Page(math.MaxInt, math.MaxInt) })
	assert.Empty(t, p.Entries)

	p = board.Page(0, 0)
	require.Len(t, p.Entries, 1)
	assert.Equal(t, 4, p.Entries[0].Rank)
}
