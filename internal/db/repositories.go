package db

import "gorm.io/gorm"

type Repositories struct {
	Users      *UserRepository
	Friends    *FriendRepository
	LogEntries *LogEntryRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(database),
		Friends:    NewFriendRepository(database),
		LogEntries: NewLogEntryRepository(database),
	}
}
