package services

import (
	"sort"

	"github.com/terraincognita07/circlecare/internal/models"
)

type FriendRepository interface {
	FindPendingBetween(a uint, b uint) (models.FriendRequest, bool, error)
	InsertPending(request *models.FriendRequest) (bool, error)
	DeletePending(from uint, to uint) (bool, error)
	ListIncoming(userID uint) ([]models.FriendRequest, error)
	ListOutgoing(userID uint) ([]models.FriendRequest, error)
	FriendshipExists(a uint, b uint) (bool, error)
	AcceptPending(from uint, to uint) (bool, error)
	DeleteFriendship(a uint, b uint) (bool, error)
	ListFriendIDs(userID uint) ([]uint, error)
}

// FriendService owns the friend request lifecycle. For every unordered pair
// the relationship moves none -> pending(from->to) -> friends or back to none.
type FriendService struct {
	friends FriendRepository
	pairs   keyedLocks
}

func NewFriendService(friends FriendRepository) *FriendService {
	return &FriendService{friends: friends}
}

func (service *FriendService) lockPair(a uint, b uint) func() {
	low, high := models.OrderedPair(a, b)
	return service.pairs.lock(pairLockKey(low, high))
}

func (service *FriendService) SendRequest(from uint, to uint) (models.FriendRequest, error) {
	if from == to {
		return models.FriendRequest{}, ErrSelfRequest
	}

	unlock := service.lockPair(from, to)
	defer unlock()

	friends, err := service.friends.FriendshipExists(from, to)
	if err != nil {
		return models.FriendRequest{}, storageError("check friendship", err)
	}
	if friends {
		return models.FriendRequest{}, ErrAlreadyFriends
	}

	_, pending, err := service.friends.FindPendingBetween(from, to)
	if err != nil {
		return models.FriendRequest{}, storageError("find pending request", err)
	}
	if pending {
		return models.FriendRequest{}, ErrDuplicateRequest
	}

	request := models.FriendRequest{FromUserID: from, ToUserID: to}
	inserted, err := service.friends.InsertPending(&request)
	if err != nil {
		return models.FriendRequest{}, storageError("create friend request", err)
	}
	if !inserted {
		return models.FriendRequest{}, ErrDuplicateRequest
	}
	return request, nil
}

// RemoveRequest withdraws the sender's own pending request. A request in the
// opposite direction is left alone.
func (service *FriendService) RemoveRequest(from uint, to uint) error {
	unlock := service.lockPair(from, to)
	defer unlock()

	removed, err := service.friends.DeletePending(from, to)
	if err != nil {
		return storageError("delete friend request", err)
	}
	if !removed {
		return ErrFriendRequestNotFound
	}
	return nil
}

// AcceptRequest is called by the recipient (to) of a pending request from
// from. Accepting again once the pair are friends is a no-op.
func (service *FriendService) AcceptRequest(from uint, to uint) error {
	unlock := service.lockPair(from, to)
	defer unlock()

	accepted, err := service.friends.AcceptPending(from, to)
	if err != nil {
		return storageError("accept friend request", err)
	}
	if accepted {
		return nil
	}

	friends, err := service.friends.FriendshipExists(from, to)
	if err != nil {
		return storageError("check friendship", err)
	}
	if !friends {
		return ErrFriendRequestNotFound
	}
	return nil
}

func (service *FriendService) RejectRequest(from uint, to uint) error {
	unlock := service.lockPair(from, to)
	defer unlock()

	removed, err := service.friends.DeletePending(from, to)
	if err != nil {
		return storageError("reject friend request", err)
	}
	if !removed {
		return ErrFriendRequestNotFound
	}
	return nil
}

func (service *FriendService) RemoveFriend(a uint, b uint) error {
	unlock := service.lockPair(a, b)
	defer unlock()

	removed, err := service.friends.DeleteFriendship(a, b)
	if err != nil {
		return storageError("delete friendship", err)
	}
	if !removed {
		return ErrFriendshipNotFound
	}
	return nil
}

func (service *FriendService) GetFriends(userID uint) ([]uint, error) {
	ids, err := service.friends.ListFriendIDs(userID)
	if err != nil {
		return nil, storageError("list friends", err)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// GetRequests lists the pending requests waiting on userID to answer.
func (service *FriendService) GetRequests(userID uint) ([]models.FriendRequest, error) {
	requests, err := service.friends.ListIncoming(userID)
	if err != nil {
		return nil, storageError("list incoming requests", err)
	}
	return requests, nil
}

func (service *FriendService) GetSentRequests(userID uint) ([]models.FriendRequest, error) {
	requests, err := service.friends.ListOutgoing(userID)
	if err != nil {
		return nil, storageError("list outgoing requests", err)
	}
	return requests, nil
}
