package realtime

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// WebSocketConn wraps websocket.Conn so the hub does not import the
// websocket package directly.
type WebSocketConn struct {
	Conn *websocket.Conn
}

// NewRedis creates the redis client used for cross-instance notifications.
func NewRedis() *redis.Client {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	log.Printf("Redis client created (addr: %s)\n", redisAddr)
	return rdb
}

// Notifier publishes per-user notification events to redis; a separate
// push/notification worker subscribes to notifications:<user_id>.
type Notifier struct {
	RDB *redis.Client
}

func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{RDB: rdb}
}

func (n *Notifier) NotifyUser(ctx context.Context, userID uuid.UUID, event map[string]interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling notification: %v", err)
		return
	}
	if err := n.RDB.Publish(ctx, "notifications:"+userID.String(), payload).Err(); err != nil {
		log.Println("Error publishing notification:", err)
	}
}
