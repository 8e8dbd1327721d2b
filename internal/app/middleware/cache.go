package middleware

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PazzonEx/condy-access-service/internal/domain/services"
)

// cachedResponse 缓存的响应内容
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Expiration time.Duration             // 缓存过期时间
	KeyFunc    func(*gin.Context) string // 自定义缓存键生成函数
}

var cacheRedis services.InterfaceRedisService

// InitCacheMiddleware 初始化响应缓存中间件，redis不可用时缓存自动退化为直通
func InitCacheMiddleware(redisService services.InterfaceRedisService) {
	cacheRedis = redisService
}

// defaultKeyFunc 默认缓存键：路径+排序后的查询参数+调用者身份
func defaultKeyFunc(c *gin.Context) string {
	path := c.Request.URL.Path

	queryParams := c.Request.URL.Query()
	var queryKeys []string
	for key := range queryParams {
		queryKeys = append(queryKeys, key)
	}
	sort.Strings(queryKeys)

	var b strings.Builder
	b.WriteString(path)
	for _, key := range queryKeys {
		b.WriteString("&")
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(strings.Join(queryParams[key], ","))
	}
	// 身份相关的列表按调用者区分缓存
	if userID, exists := c.Get("userID"); exists {
		if id, ok := userID.(uint); ok {
			b.WriteString("&uid=")
			b.WriteString(strconv.FormatUint(uint64(id), 10))
		}
	}

	sum := md5.Sum([]byte(b.String()))
	return "response_cache:" + hex.EncodeToString(sum[:])
}

// bodyWriter 捕获响应体以便写入缓存
type bodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Cache 只缓存GET请求的成功响应
func Cache(cfg CacheConfig) gin.HandlerFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = defaultKeyFunc
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = 5 * time.Minute
	}

	return func(c *gin.Context) {
		if cacheRedis == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cfg.KeyFunc(c)

		// 命中缓存直接返回
		var cached cachedResponse
		if err := cacheRedis.Get(key, &cached); err == nil && cached.Status != 0 {
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		writer := &bodyWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer
		c.Next()

		// 只缓存成功响应
		if writer.Status() == http.StatusOK {
			entry := cachedResponse{
				Status:      writer.Status(),
				ContentType: writer.Header().Get("Content-Type"),
				Body:        writer.body.Bytes(),
			}
			// 写缓存失败不影响响应
			_ = cacheRedis.Set(key, entry, cfg.Expiration)
		}
	}
}
