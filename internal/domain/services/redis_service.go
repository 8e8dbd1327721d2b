package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/PazzonEx/condy-access-service/internal/infrastructure/config"
)

// InterfaceRedisService 定义Redis服务接口
type InterfaceRedisService interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	AcquireScanLock(requestID uint, expiration time.Duration) (bool, error)
	ReleaseScanLock(requestID uint) error
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "", // No password set
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	return &RedisService{
		Client: client,
		Ctx:    ctx,
	}
}

// Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// AcquireScanLock 获取扫码锁，同一请求的并发扫码只有第一个能拿到锁
func (s *RedisService) AcquireScanLock(requestID uint, expiration time.Duration) (bool, error) {
	key := scanLockKey(requestID)
	return s.Client.SetNX(s.Ctx, key, time.Now().UnixMilli(), expiration).Result()
}

// ReleaseScanLock 释放扫码锁
func (s *RedisService) ReleaseScanLock(requestID uint) error {
	return s.Client.Del(s.Ctx, scanLockKey(requestID)).Err()
}

func scanLockKey(requestID uint) string {
	return "access_request:scan_lock:" + strconv.FormatUint(uint64(requestID), 10)
}
