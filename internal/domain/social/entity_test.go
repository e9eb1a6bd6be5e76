package social

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnloop/learnloop-hub/internal/domain/shared"
)

func TestPost_Validate(t *testing.T) {
	valid := &Post{ID: "p1", UserID: "u1", Content: "shipped my first goroutine today"}
	assert.NoError(t, valid.Validate())

	missingUser := &Post{ID: "p1", Content: "hello"}
	assert.Error(t, missingUser.Validate())

	blank := &Post{ID: "p1", UserID: "u1", Content: " \t\n"}
	assert.ErrorIs(t, blank.Validate(), shared.ErrEmptyPost)
}

func TestFeedOptions_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		explicit bool
		want     int
		wantErr  bool
	}{
		{"absent limit gets the default", 0, false, DefaultFeedLimit, false},
		{"explicit zero is rejected", 0, true, 0, true},
		{"explicit negative is rejected", -5, true, 0, true},
		{"explicit one is honored", 1, true, 1, false},
		{"explicit in range is honored", 50, true, 50, false},
		{"explicit at the maximum is honored", 100, true, 100, false},
		{"explicit above the maximum is clamped", 1000, true, MaxFeedLimit, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := FeedOptions{Limit: tt.limit}.Normalize(tt.explicit)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, shared.ErrInvalidLimit)
				assert.True(t, shared.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, opts.Limit)
		})
	}
}

func TestChronologicalRanking_NewestFirst(t *testing.T) {
	now := time.Now().UTC()
	items := []FeedItem{
		{Post: &Post{ID: "old", CreatedAt: now.Add(-2 * time.Hour)}},
		{Post: &Post{ID: "new", CreatedAt: now}},
		{Post: &Post{ID: "mid", CreatedAt: now.Add(-1 * time.Hour)}},
	}

	ranked := ChronologicalRanking{}.Rank(items)

	require.Len(t, ranked, 3)
	assert.Equal(t, "new", ranked[0].Post.ID)
	assert.Equal(t, "mid", ranked[1].Post.ID)
	assert.Equal(t, "old", ranked[2].Post.ID)
}
