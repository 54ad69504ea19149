package config

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisClient is nil when Redis is unreachable. Every consumer (form
// drafts, remember-me, OTP attempt limiting) must tolerate that and
// degrade to no persistence.
var RedisClient *redis.Client

// ConnectRedis dials Redis using REDIS_ADDR / REDIS_PASSWORD / REDIS_DB.
// A failed connection is not fatal: the platform runs without drafts and
// remember-me rather than refusing to start.
func ConnectRedis() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	db := 0
	if s := os.Getenv("REDIS_DB"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			db = n
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           db,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis connection failed: %v", err)
		log.Println("Form drafts and Remember Me functionality will be disabled")
		return nil
	}

	log.Printf("Connected to Redis at %s", addr)
	RedisClient = client
	return client
}

// GetRedisClient returns the shared Redis client, which may be nil
func GetRedisClient() *redis.Client {
	return RedisClient
}

// CloseRedis closes the Redis connection
func CloseRedis() {
	if RedisClient != nil {
		RedisClient.Close()
	}
}
