package social

import "sort"

// RankingPolicy orders a fetched feed page before it is returned. The feed
// source does not define ranking precisely, so it stays behind this
// interface instead of being baked into feed composition.
type RankingPolicy interface {
	Rank(items []FeedItem) []FeedItem
}

// ChronologicalRanking is the default policy: newest posts first.
type ChronologicalRanking struct{}

// Rank implements RankingPolicy.
func (ChronologicalRanking) Rank(items []FeedItem) []FeedItem {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Post.CreatedAt.After(items[j].Post.CreatedAt)
	})
	return items
}
