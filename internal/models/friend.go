package models

import (
	"time"

	"gorm.io/gorm"
)

const FriendRequestPending = "pending"

// FriendRequest is a directed proposal from one user to another. Only pending
// requests are stored; accepting or rejecting deletes the row.
type FriendRequest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FromUserID uint      `gorm:"not null;index" json:"from_user_id"`
	ToUserID   uint      `gorm:"not null;index" json:"to_user_id"`
	PairLow    uint      `gorm:"not null;uniqueIndex:uidx_friend_request_pair" json:"-"`
	PairHigh   uint      `gorm:"not null;uniqueIndex:uidx_friend_request_pair" json:"-"`
	Status     string    `gorm:"not null;default:pending" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func (request *FriendRequest) BeforeCreate(_ *gorm.DB) error {
	request.PairLow, request.PairHigh = OrderedPair(request.FromUserID, request.ToUserID)
	if request.Status == "" {
		request.Status = FriendRequestPending
	}
	return nil
}

// Friendship is stored once per unordered pair with UserLowID < UserHighID.
type Friendship struct {
	ID         uint      `gorm:"primaryKey"`
	UserLowID  uint      `gorm:"not null;uniqueIndex:uidx_friendship_pair"`
	UserHighID uint      `gorm:"not null;uniqueIndex:uidx_friendship_pair;index"`
	CreatedAt  time.Time
}

func (friendship *Friendship) BeforeCreate(_ *gorm.DB) error {
	friendship.UserLowID, friendship.UserHighID = OrderedPair(friendship.UserLowID, friendship.UserHighID)
	return nil
}

// Other returns the member of the friendship that is not userID.
func (friendship Friendship) Other(userID uint) uint {
	if friendship.UserLowID == userID {
		return friendship.UserHighID
	}
	return friendship.UserLowID
}

func OrderedPair(a uint, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}
