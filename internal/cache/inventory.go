package cache

import (
	"context"
	"fmt"
	"time"
)

// User cache key layouts.
const (
	UserIDKeyPrefix       = "user:id:%s"
	UserUsernameKeyPrefix = "user:username:%s"
	UsersAllKey           = "users:all"
)

// UserTTL bounds how stale a cached user may be after an external edit.
const UserTTL = 5 * time.Minute

func UserIDKey(id string) string {
	return fmt.Sprintf(UserIDKeyPrefix, id)
}

func UserUsernameKey(username string) string {
	return fmt.Sprintf(UserUsernameKeyPrefix, username)
}

// Invalidate deletes keys, ignoring errors.
func Invalidate(ctx context.Context, keys ...string) {
	if client := GetClient(); client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateUsers drops every cached user lookup.
func InvalidateUsers(ctx context.Context) {
	client := GetClient()
	if client == nil {
		return
	}
	var keys []string
	for _, pattern := range []string{"user:id:*", "user:username:*"} {
		iter := client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
	}
	keys = append(keys, UsersAllKey)
	Invalidate(ctx, keys...)
}
