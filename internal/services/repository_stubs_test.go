package services

import (
	"sort"
	"sync"
	"time"

	"github.com/terraincognita07/circlecare/internal/models"
)

type friendRepositoryStub struct {
	mu          sync.Mutex
	requests    []models.FriendRequest
	friendships map[[2]uint]models.Friendship
	nextID      uint
	err         error
}

func newFriendRepositoryStub() *friendRepositoryStub {
	return &friendRepositoryStub{
		friendships: make(map[[2]uint]models.Friendship),
		nextID:      1,
	}
}

func (stub *friendRepositoryStub) pairKey(a uint, b uint) [2]uint {
	low, high := models.OrderedPair(a, b)
	return [2]uint{low, high}
}

func (stub *friendRepositoryStub) FindPendingBetween(a uint, b uint) (models.FriendRequest, bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.err != nil {
		return models.FriendRequest{}, false, stub.err
	}
	for _, request := range stub.requests {
		if stub.pairKey(request.FromUserID, request.ToUserID) == stub.pairKey(a, b) {
			return request, true, nil
		}
	}
	return models.FriendRequest{}, false, nil
}

func (stub *friendRepositoryStub) InsertPending(request *models.FriendRequest) (bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.err != nil {
		return false, stub.err
	}
	for _, existing := range stub.requests {
		if stub.pairKey(existing.FromUserID, existing.ToUserID) == stub.pairKey(request.FromUserID, request.ToUserID) {
			return false, nil
		}
	}
	request.ID = stub.nextID
	request.Status = models.FriendRequestPending
	request.PairLow, request.PairHigh = models.OrderedPair(request.FromUserID, request.ToUserID)
	stub.nextID++
	stub.requests = append(stub.requests, *request)
	return true, nil
}

func (stub *friendRepositoryStub) deletePendingLocked(from uint, to uint) bool {
	for index, request := range stub.requests {
		if request.FromUserID == from && request.ToUserID == to {
			stub.requests = append(stub.requests[:index], stub.requests[index+1:]...)
			return true
		}
	}
	return false
}

func (stub *friendRepositoryStub) DeletePending(from uint, to uint) (bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.err != nil {
		return false, stub.err
	}
	return stub.deletePendingLocked(from, to), nil
}

func (stub *friendRepositoryStub) ListIncoming(userID uint) ([]models.FriendRequest, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.err != nil {
		return nil, stub.err
	}
	requests := make([]models.FriendRequest, 0)
	for _, request := range stub.requests {
		if request.ToUserID == userID {
			requests = append(requests, request)
		}
	}
	return requests, nil
}

func (stub *friendRepositoryStub) ListOutgoing(userID uint) ([]models.FriendRequest, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.err != nil {
		return nil, stub.err
	}
	requests := make([]models.FriendRequest, 0)
	for _, request := range stub.requests {
		if request.FromUserID == userID {
			requests = append(requests, request)
		}
	}
	return requests, nil
}

func (stub *friendRepositoryStub) FriendshipExists(a uint, b uint) (bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.err != nil {
		return false, stub.err
	}
	_, ok := stub.friendships[stub.pairKey(a, b)]
	return ok, nil
}

func (stub *friendRepositoryStub) AcceptPending(from uint, to uint) (bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.err != nil {
		return false, stub.err
	}
	if !stub.deletePendingLocked(from, to) {
		return false, nil
	}
	key := stub.pairKey(from, to)
	if _, ok := stub.friendships[key]; !ok {
		stub.friendships[key] = models.Friendship{UserLowID: key[0], UserHighID: key[1]}
	}
	return true, nil
}

func (stub *friendRepositoryStub) DeleteFriendship(a uint, b uint) (bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.err != nil {
		return false, stub.err
	}
	key := stub.pairKey(a, b)
	if _, ok := stub.friendships[key]; !ok {
		return false, nil
	}
	delete(stub.friendships, key)
	return true, nil
}

func (stub *friendRepositoryStub) ListFriendIDs(userID uint) ([]uint, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.err != nil {
		return nil, stub.err
	}
	ids := make([]uint, 0)
	for _, friendship := range stub.friendships {
		if friendship.UserLowID == userID || friendship.UserHighID == userID {
			ids = append(ids, friendship.Other(userID))
		}
	}
	return ids, nil
}

func (stub *friendRepositoryStub) pendingCount() int {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return len(stub.requests)
}

func (stub *friendRepositoryStub) friendshipCount() int {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return len(stub.friendships)
}

type logEntryRepositoryStub struct {
	entries map[uint]models.LogEntry
	nextID  uint
	err     error
}

func newLogEntryRepositoryStub() *logEntryRepositoryStub {
	return &logEntryRepositoryStub{
		entries: make(map[uint]models.LogEntry),
		nextID:  1,
	}
}

func (stub *logEntryRepositoryStub) sorted(filter func(models.LogEntry) bool) []models.LogEntry {
	entries := make([]models.LogEntry, 0)
	for _, entry := range stub.entries {
		if filter(entry) {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date.Equal(entries[j].Date) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries
}

func (stub *logEntryRepositoryStub) FindByID(entryID uint) (models.LogEntry, bool, error) {
	if stub.err != nil {
		return models.LogEntry{}, false, stub.err
	}
	entry, ok := stub.entries[entryID]
	return entry, ok, nil
}

func (stub *logEntryRepositoryStub) FindByUserAndDayRange(userID uint, dayStart time.Time, dayEnd time.Time) (models.LogEntry, bool, error) {
	if stub.err != nil {
		return models.LogEntry{}, false, stub.err
	}
	for _, entry := range stub.entries {
		if entry.UserID == userID && !entry.Date.Before(dayStart) && entry.Date.Before(dayEnd) {
			return entry, true, nil
		}
	}
	return models.LogEntry{}, false, nil
}

func (stub *logEntryRepositoryStub) ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.LogEntry, error) {
	if stub.err != nil {
		return nil, stub.err
	}
	return stub.sorted(func(entry models.LogEntry) bool {
		if entry.UserID != userID {
			return false
		}
		if fromStart != nil && entry.Date.Before(*fromStart) {
			return false
		}
		if toEnd != nil && !entry.Date.Before(*toEnd) {
			return false
		}
		return true
	}), nil
}

func (stub *logEntryRepositoryStub) ListFlowDays(userID uint) ([]models.LogEntry, error) {
	if stub.err != nil {
		return nil, stub.err
	}
	return stub.sorted(func(entry models.LogEntry) bool {
		return entry.UserID == userID && entry.HasFlow()
	}), nil
}

func (stub *logEntryRepositoryStub) Create(entry *models.LogEntry) (bool, error) {
	if stub.err != nil {
		return false, stub.err
	}
	for _, existing := range stub.entries {
		if existing.UserID == entry.UserID && existing.Date.Equal(entry.Date) {
			return false, nil
		}
	}
	entry.ID = stub.nextID
	stub.nextID++
	stub.entries[entry.ID] = *entry
	return true, nil
}

func (stub *logEntryRepositoryStub) UpdateContent(entry *models.LogEntry) (bool, error) {
	if stub.err != nil {
		return false, stub.err
	}
	existing, ok := stub.entries[entry.ID]
	if !ok {
		return false, nil
	}
	existing.Symptoms = entry.Symptoms
	existing.Mood = entry.Mood
	existing.Flow = entry.Flow
	existing.Notes = entry.Notes
	stub.entries[entry.ID] = existing
	return true, nil
}

func (stub *logEntryRepositoryStub) Delete(entryID uint) (bool, error) {
	if stub.err != nil {
		return false, stub.err
	}
	if _, ok := stub.entries[entryID]; !ok {
		return false, nil
	}
	delete(stub.entries, entryID)
	return true, nil
}

type userRepositoryStub struct {
	users   map[uint]models.User
	nextID  uint
	deleted []uint
}

func newUserRepositoryStub() *userRepositoryStub {
	return &userRepositoryStub{users: make(map[uint]models.User), nextID: 1}
}

func (stub *userRepositoryStub) FindByID(userID uint) (models.User, bool, error) {
	user, ok := stub.users[userID]
	return user, ok, nil
}

func (stub *userRepositoryStub) FindByNormalizedUsername(username string) (models.User, bool, error) {
	for _, user := range stub.users {
		if user.Username == username {
			return user, true, nil
		}
	}
	return models.User{}, false, nil
}

func (stub *userRepositoryStub) ListUsernames() ([]string, error) {
	usernames := make([]string, 0, len(stub.users))
	for _, user := range stub.users {
		usernames = append(usernames, user.Username)
	}
	sort.Strings(usernames)
	return usernames, nil
}

func (stub *userRepositoryStub) ListByIDs(ids []uint) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := stub.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (stub *userRepositoryStub) Create(user *models.User) (bool, error) {
	for _, existing := range stub.users {
		if existing.Username == user.Username {
			return false, nil
		}
	}
	user.ID = stub.nextID
	stub.nextID++
	stub.users[user.ID] = *user
	return true, nil
}

func (stub *userRepositoryStub) UpdateUsername(userID uint, username string) (bool, error) {
	for _, existing := range stub.users {
		if existing.Username == username && existing.ID != userID {
			return false, nil
		}
	}
	user := stub.users[userID]
	user.Username = username
	stub.users[userID] = user
	return true, nil
}

func (stub *userRepositoryStub) UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error {
	user := stub.users[userID]
	user.PasswordHash = passwordHash
	user.MustChangePassword = mustChangePassword
	stub.users[userID] = user
	return nil
}

func (stub *userRepositoryStub) DeleteAccountAndRelatedData(userID uint) error {
	delete(stub.users, userID)
	stub.deleted = append(stub.deleted, userID)
	return nil
}
