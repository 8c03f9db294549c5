package handler_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"tutor-marketplace-api/internal/model"
	"tutor-marketplace-api/internal/recovery"
	"tutor-marketplace-api/internal/store"
)

// fakeStore keeps everything in maps; failClass/failList force errors.
type fakeStore struct {
	mu        sync.Mutex
	users     map[int64]*model.User
	classes   []model.Class
	tokens    map[string]*model.RefreshToken // by hash
	nextID    int64
	failClass error
	failList  error
	lastQuery model.ClassFilter
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[int64]*model.User{}, tokens: map[string]*model.RefreshToken{}}
}

func (f *fakeStore) CreateUser(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return store.ErrDuplicateEmail
		}
	}
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeStore) UserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) UserByID(_ context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeStore) UpdatePassword(_ context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeStore) CreateRefreshToken(_ context.Context, userID int64, hash string, exp time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New().String()
	f.tokens[hash] = &model.RefreshToken{ID: id, UserID: userID, TokenHash: hash, ExpiresAt: exp}
	return id, nil
}

func (f *fakeStore) GetRefreshTokenByHash(_ context.Context, hash string) (*model.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.tokens[hash]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *rt
	return &cp, nil
}

func (f *fakeStore) RotateRefreshToken(_ context.Context, oldID string, userID int64, newHash string, exp time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rt := range f.tokens {
		if rt.ID == oldID {
			if rt.Revoked {
				return "", store.ErrTokenReused
			}
			id := uuid.New().String()
			rt.Revoked = true
			rt.ReplacedBy = &id
			f.tokens[newHash] = &model.RefreshToken{ID: id, UserID: userID, TokenHash: newHash, ExpiresAt: exp}
			return id, nil
		}
	}
	return "", store.ErrTokenReused
}

func (f *fakeStore) RevokeAllRefreshTokens(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rt := range f.tokens {
		if rt.UserID == userID {
			rt.Revoked = true
		}
	}
	return nil
}

func (f *fakeStore) activeTokens(userID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, rt := range f.tokens {
		if rt.UserID == userID && !rt.Revoked {
			n++
		}
	}
	return n
}

// ListClasses mirrors the SQL: teachers only, and with a filter only slots
// containing the minute on that day.
func (f *fakeStore) ListClasses(_ context.Context, q model.ClassFilter) ([]model.ClassListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q
	if f.failList != nil {
		return nil, f.failList
	}
	out := []model.ClassListing{}
	for _, c := range f.classes {
		u := f.users[c.UserID]
		if u == nil || !u.IsTeacher {
			continue
		}
		if q.Filtered && c.Subject != q.Subject {
			continue
		}
		for _, s := range c.Schedule {
			if q.Filtered && (s.WeekDay != q.WeekDay || s.From > q.Time || s.To <= q.Time) {
				continue
			}
			out = append(out, model.ClassListing{
				ID: u.ID, ClassID: c.ID, Name: u.Name, Avatar: u.Avatar, Bio: u.Bio, Whatsapp: u.Whatsapp,
				Subject: c.Subject, Cost: c.Cost, WeekDay: s.WeekDay, From: s.From, To: s.To,
			})
		}
	}
	return out, nil
}

func (f *fakeStore) CreateClass(_ context.Context, c *model.Class) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failClass != nil {
		return f.failClass
	}
	f.nextID++
	c.ID = f.nextID
	for i := range c.Schedule {
		c.Schedule[i].ClassID = c.ID
	}
	f.classes = append(f.classes, *c)
	return nil
}

func (f *fakeStore) ClassesByUser(_ context.Context, userID int64) ([]model.Class, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Class{}
	for _, c := range f.classes {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) Ping(context.Context) error { return nil }

type fakeResets struct {
	mu     sync.Mutex
	tokens map[string]int64
	n      int
}

func (r *fakeResets) Issue(_ context.Context, userID int64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.n++
	tok := uuid.New().String()
	r.tokens[tok] = userID
	return tok, nil
}

func (r *fakeResets) Consume(_ context.Context, raw string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.tokens[raw]
	if !ok {
		return 0, recovery.ErrTokenNotFound
	}
	delete(r.tokens, raw)
	return id, nil
}

type sentMail struct{ email, token string }

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, email, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{email, token})
	return nil
}

var errBoom = errors.New("boom")
