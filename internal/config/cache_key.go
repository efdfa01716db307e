package config

import "fmt"

// CacheKeyStruct centralizes every Redis key and channel name so layout
// changes happen in one place.
type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AdminSessionKey returns the key holding an admin's active session JTI.
func (r *CacheKeyStruct) AdminSessionKey(adminID int) string {
	return fmt.Sprintf("login:admin:%d", adminID)
}

// CheckinQueueKey returns the list key kiosk check-in events are pushed to.
func (r *CacheKeyStruct) CheckinQueueKey() string {
	return "checkin:queue"
}

// LiveRosterChannel returns the Pub/Sub channel live dashboards subscribe to.
func (r *CacheKeyStruct) LiveRosterChannel() string {
	return "live:roster"
}

var CacheKey = NewCacheKeyStruct()
