package app

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"warbler/internal/event"
	"warbler/internal/model"
)

// In-memory store implementations backing the service tests. They mirror
// the repository contracts, including the unique-constraint behavior the
// services rely on.

type memState struct {
	users    map[uint]*model.User
	messages map[uint]*model.Message
	follows  map[[2]uint]bool
	likes    map[[2]uint]bool
	nextID   uint
}

func newMemState() *memState {
	return &memState{
		users:    make(map[uint]*model.User),
		messages: make(map[uint]*model.Message),
		follows:  make(map[[2]uint]bool),
		likes:    make(map[[2]uint]bool),
	}
}

func (s *memState) nextSeq() uint {
	s.nextID++
	return s.nextID
}

type memUsers struct{ *memState }

func (m memUsers) Create(user *model.User) error {
	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = m.nextSeq()
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m memUsers) GetByID(id uint) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (m memUsers) GetByUsername(username string) (*model.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (m memUsers) Search(query string) ([]model.User, error) {
	var out []model.User
	for _, user := range m.users {
		if query == "" || strings.Contains(user.Username, query) {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (m memUsers) Update(user *model.User) error {
	for id, existing := range m.users {
		if id == user.ID {
			continue
		}
		if existing.Username == user.Username || existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m memUsers) Delete(id uint) error {
	for msgID, msg := range m.messages {
		if msg.UserID != id {
			continue
		}
		for edge := range m.likes {
			if edge[1] == msgID {
				delete(m.likes, edge)
			}
		}
		delete(m.messages, msgID)
	}
	for edge := range m.likes {
		if edge[0] == id {
			delete(m.likes, edge)
		}
	}
	for edge := range m.follows {
		if edge[0] == id || edge[1] == id {
			delete(m.follows, edge)
		}
	}
	delete(m.users, id)
	return nil
}

type memMessages struct{ *memState }

func (m memMessages) Create(message *model.Message) error {
	message.ID = m.nextSeq()
	clone := *message
	m.messages[message.ID] = &clone
	return nil
}

func (m memMessages) GetByID(id uint) (*model.Message, error) {
	message, ok := m.messages[id]
	if !ok {
		return nil, nil
	}
	clone := *message
	return &clone, nil
}

func (m memMessages) ListByUserID(userID uint) ([]model.Message, error) {
	var out []model.Message
	for _, message := range m.messages {
		if message.UserID == userID {
			out = append(out, *message)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m memMessages) ListTimeline(viewerID uint, limit int) ([]model.Message, error) {
	var out []model.Message
	for _, message := range m.messages {
		if message.UserID == viewerID || m.follows[[2]uint{viewerID, message.UserID}] {
			out = append(out, *message)
		}
	}
	sortNewestFirst(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m memMessages) Delete(id uint) error {
	for edge := range m.likes {
		if edge[1] == id {
			delete(m.likes, edge)
		}
	}
	delete(m.messages, id)
	return nil
}

type memFollows struct{ *memState }

func (m memFollows) Create(followerID, followeeID uint) error {
	m.follows[[2]uint{followerID, followeeID}] = true
	return nil
}

func (m memFollows) Delete(followerID, followeeID uint) (bool, error) {
	edge := [2]uint{followerID, followeeID}
	if !m.follows[edge] {
		return false, nil
	}
	delete(m.follows, edge)
	return true, nil
}

func (m memFollows) Exists(followerID, followeeID uint) (bool, error) {
	return m.follows[[2]uint{followerID, followeeID}], nil
}

func (m memFollows) ListFollowers(userID uint) ([]model.User, error) {
	var out []model.User
	for edge := range m.follows {
		if edge[1] == userID {
			if user, ok := m.users[edge[0]]; ok {
				out = append(out, *user)
			}
		}
	}
	return out, nil
}

func (m memFollows) ListFollowing(userID uint) ([]model.User, error) {
	var out []model.User
	for edge := range m.follows {
		if edge[0] == userID {
			if user, ok := m.users[edge[1]]; ok {
				out = append(out, *user)
			}
		}
	}
	return out, nil
}

func (m memFollows) ListFollowerIDs(userID uint) ([]uint, error) {
	var out []uint
	for edge := range m.follows {
		if edge[1] == userID {
			out = append(out, edge[0])
		}
	}
	return out, nil
}

type memLikes struct{ *memState }

func (m memLikes) Toggle(userID, messageID uint) (bool, error) {
	edge := [2]uint{userID, messageID}
	if m.likes[edge] {
		delete(m.likes, edge)
		return false, nil
	}
	m.likes[edge] = true
	return true, nil
}

func (m memLikes) Exists(userID, messageID uint) (bool, error) {
	return m.likes[[2]uint{userID, messageID}], nil
}

func (m memLikes) CountByMessageID(messageID uint) (int64, error) {
	var count int64
	for edge := range m.likes {
		if edge[1] == messageID {
			count++
		}
	}
	return count, nil
}

func (m memLikes) ListLikedMessages(userID uint) ([]model.Message, error) {
	var out []model.Message
	for edge := range m.likes {
		if edge[0] == userID {
			if message, ok := m.messages[edge[1]]; ok {
				out = append(out, *message)
			}
		}
	}
	sortNewestFirst(out)
	return out, nil
}

type capturePublisher struct {
	events []event.FeedEvent
}

func (p *capturePublisher) Publish(_ context.Context, ev event.FeedEvent) error {
	p.events = append(p.events, ev)
	return nil
}

type fakeFeedCache struct {
	feeds map[uint][]model.Message
	dirty map[uint]bool
}

func newFakeFeedCache() *fakeFeedCache {
	return &fakeFeedCache{
		feeds: make(map[uint][]model.Message),
		dirty: make(map[uint]bool),
	}
}

func (c *fakeFeedCache) GetFeed(_ context.Context, viewerID uint) ([]model.Message, bool, error) {
	feed, ok := c.feeds[viewerID]
	return feed, ok, nil
}

func (c *fakeFeedCache) SetFeed(_ context.Context, viewerID uint, messages []model.Message) error {
	c.feeds[viewerID] = messages
	return nil
}

func (c *fakeFeedCache) DeleteFeed(_ context.Context, viewerID uint) error {
	delete(c.feeds, viewerID)
	return nil
}

func (c *fakeFeedCache) MarkDirty(_ context.Context, viewerID uint) error {
	c.dirty[viewerID] = true
	return nil
}

func (c *fakeFeedCache) IsDirty(_ context.Context, viewerID uint) (bool, error) {
	return c.dirty[viewerID], nil
}

func sortNewestFirst(messages []model.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID > messages[j].ID
		}
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
}
