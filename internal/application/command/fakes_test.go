package command

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/learnloop/learnloop-hub/internal/domain/learning"
	"github.com/learnloop/learnloop-hub/internal/domain/shared"
	"github.com/learnloop/learnloop-hub/internal/domain/social"
	"github.com/learnloop/learnloop-hub/internal/domain/user"
	"github.com/learnloop/learnloop-hub/pkg/timeutil"
)

// memUserRepo is an in-memory user.Repository with the same atomicity
// contract as the SQL implementation: IncrementXP is a single atomic
// read-modify-write and UpdateStreak is a conditional compare-and-set.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*user.User

	// incrementErr, when set, fails every IncrementXP call.
	incrementErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*user.User)}
}

func (r *memUserRepo) seed(u *user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
}

func (r *memUserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; ok {
		return shared.ErrUserAlreadyExists
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return shared.ErrUserAlreadyExists
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	cp := *u
	if u.LastActivityDate != nil {
		d := *u.LastActivityDate
		cp.LastActivityDate = &d
	}
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (r *memUserRepo) IncrementXP(_ context.Context, id string, amount int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.incrementErr != nil {
		return 0, r.incrementErr
	}
	u, ok := r.users[id]
	if !ok {
		return 0, shared.ErrUserNotFound
	}
	u.XP += user.XP(amount)
	return int(u.XP), nil
}

func (r *memUserRepo) UpdateStreak(_ context.Context, id string, newStreak int, newDate timeutil.Date, expectLast *timeutil.Date) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return false, shared.ErrUserNotFound
	}
	if !datesMatch(u.LastActivityDate, expectLast) {
		return false, nil
	}
	u.Streak = user.Streak(newStreak)
	d := newDate
	u.LastActivityDate = &d
	return true, nil
}

func datesMatch(a, b *timeutil.Date) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// memSessionRepo is an in-memory learning.SessionRepository.
type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*learning.Session

	// insertErr / markErr, when set, fail the respective calls.
	insertErr error
	markErr   error
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*learning.Session)}
}

func (r *memSessionRepo) Insert(_ context.Context, s *learning.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *memSessionRepo) GetByID(_ context.Context, id string) (*learning.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, shared.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memSessionRepo) MarkXPApplied(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markErr != nil {
		return r.markErr
	}
	s, ok := r.sessions[id]
	if !ok {
		return shared.ErrSessionNotFound
	}
	s.XPApplied = true
	return nil
}

func (r *memSessionRepo) ListUnapplied(_ context.Context, limit int) ([]*learning.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*learning.Session
	for _, s := range r.sessions {
		if !s.XPApplied {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memAchievementRepo is an in-memory user.AchievementRepository.
type memAchievementRepo struct {
	mu       sync.Mutex
	unlocked map[string][]*user.Achievement
}

func newMemAchievementRepo() *memAchievementRepo {
	return &memAchievementRepo{unlocked: make(map[string][]*user.Achievement)}
}

func (r *memAchievementRepo) Create(_ context.Context, a *user.Achievement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.unlocked[a.UserID] {
		if existing.Criteria == a.Criteria {
			return nil // mirrors ON CONFLICT DO NOTHING
		}
	}
	cp := *a
	r.unlocked[a.UserID] = append(r.unlocked[a.UserID], &cp)
	return nil
}

func (r *memAchievementRepo) ListByUser(_ context.Context, userID string) ([]*user.Achievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*user.Achievement(nil), r.unlocked[userID]...), nil
}

// memSocialRepo is an in-memory social.Repository. ToggleLike holds the
// lock across the whole check-and-flip, the in-memory equivalent of the
// SQL transaction.
type memSocialRepo struct {
	mu    sync.Mutex
	posts map[string]*social.Post
	likes map[string]map[string]bool // postID -> userID -> liked
}

func newMemSocialRepo() *memSocialRepo {
	return &memSocialRepo{
		posts: make(map[string]*social.Post),
		likes: make(map[string]map[string]bool),
	}
}

func (r *memSocialRepo) CreatePost(_ context.Context, p *social.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.posts[p.ID] = &cp
	r.likes[p.ID] = make(map[string]bool)
	return nil
}

func (r *memSocialRepo) GetPost(_ context.Context, id string) (*social.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, shared.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memSocialRepo) ToggleLike(_ context.Context, postID, userID string) (social.ToggleResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return social.ToggleResult{}, shared.ErrPostNotFound
	}
	if r.likes[postID][userID] {
		delete(r.likes[postID], userID)
		p.LikeCount--
		return social.ToggleResult{Liked: false, NewCount: p.LikeCount}, nil
	}
	r.likes[postID][userID] = true
	p.LikeCount++
	return social.ToggleResult{Liked: true, NewCount: p.LikeCount}, nil
}

func (r *memSocialRepo) ListFeed(_ context.Context, viewerID string, limit int) ([]social.FeedItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []social.FeedItem
	for _, p := range r.posts {
		cp := *p
		items = append(items, social.FeedItem{Post: &cp, Liked: r.likes[p.ID][viewerID]})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Post.CreatedAt.After(items[j].Post.CreatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// memTopicRepo is an in-memory learning.TopicRepository.
type memTopicRepo struct {
	mu     sync.Mutex
	topics map[string]*learning.Topic
}

func newMemTopicRepo() *memTopicRepo {
	return &memTopicRepo{topics: make(map[string]*learning.Topic)}
}

func (r *memTopicRepo) Create(_ context.Context, t *learning.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.topics[t.ID] = &cp
	return nil
}

func (r *memTopicRepo) GetByID(_ context.Context, id string) (*learning.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.topics[id]
	if !ok {
		return nil, shared.ErrTopicNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTopicRepo) ListByUser(_ context.Context, userID string) ([]*learning.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*learning.Topic
	for _, t := range r.topics {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

// memContentRepo is an in-memory learning.ContentRepository.
type memContentRepo struct {
	mu   sync.Mutex
	sets map[string]*learning.ContentSet
}

func newMemContentRepo() *memContentRepo {
	return &memContentRepo{sets: make(map[string]*learning.ContentSet)}
}

func (r *memContentRepo) Create(_ context.Context, cs *learning.ContentSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *cs
	r.sets[cs.ID] = &cp
	return nil
}

func (r *memContentRepo) GetByID(_ context.Context, id string) (*learning.ContentSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cs, ok := r.sets[id]
	if !ok {
		return nil, shared.ErrContentSetMissing
	}
	cp := *cs
	return &cp, nil
}

func (r *memContentRepo) ListByUser(_ context.Context, userID string, kind learning.ContentKind, limit int) ([]*learning.ContentSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*learning.ContentSet
	for _, cs := range r.sets {
		if cs.UserID == userID && (kind == "" || cs.Content.Kind == kind) {
			cp := *cs
			out = append(out, &cp)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// recordingBus collects published events for assertions.
type recordingBus struct {
	mu     sync.Mutex
	events []shared.Event
}

func (b *recordingBus) Publish(_ context.Context, event shared.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) Subscribe(shared.EventType, shared.EventHandler) {}

func (b *recordingBus) ofType(t shared.EventType) []shared.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []shared.Event
	for _, e := range b.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

// seededUser returns a user with no activity history.
func seededUser(id string) *user.User {
	return &user.User{
		ID:          id,
		Email:       user.Email(id + "@learnloop.dev"),
		DisplayName: id,
		CreatedAt:   time.Now().UTC(),
	}
}
