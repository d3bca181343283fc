package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromRequest(t *testing.T) {
	req := FromRequest("", "")
	require.Equal(t, 1, req.Page)
	require.Equal(t, DefaultLimit, req.Limit)
	require.Equal(t, int64(0), req.Skip())

	req = FromRequest("3", "500")
	require.Equal(t, 3, req.Page)
	require.Equal(t, MaxLimit, req.Limit)
	require.Equal(t, int64(200), req.Skip())

	req = FromRequest("-2", "abc")
	require.Equal(t, 1, req.Page)
	require.Equal(t, DefaultLimit, req.Limit)
}

func TestNew(t *testing.T) {
	p := New(2, 10, 25)
	require.Equal(t, 3, p.Pages)
	require.True(t, p.HasNext)
	require.True(t, p.HasPrev)
	require.Equal(t, 10, p.Offset)

	p = New(1, 10, 0)
	require.Equal(t, 1, p.Pages)
	require.False(t, p.HasNext)
	require.False(t, p.HasPrev)
}

func TestFromRequest_HugePage(t *testing.T) {
	req := FromRequest("92233720368547760", "100")
	require.Equal(t, MaxPage, req.Page)
	require.Positive(t, req.Skip())

	p := New(req.Page, req.Limit, 3)
	require.False(t, p.HasNext)
	require.GreaterOrEqual(t, p.Offset, 0)
}
