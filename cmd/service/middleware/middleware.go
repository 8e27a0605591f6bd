package middleware

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/kchat-ai/kchat/app/core"
	v1 "github.com/kchat-ai/kchat/app/logic/v1"
	"github.com/kchat-ai/kchat/app/response"
	"github.com/kchat-ai/kchat/pkg/errors"
	"github.com/kchat-ai/kchat/pkg/i18n"
	"github.com/kchat-ai/kchat/pkg/security"
)

func I18n() gin.HandlerFunc {
	var allowList []string
	for k := range i18n.ALLOW_LANG {
		allowList = append(allowList, k)
	}
	l := i18n.NewLocalizer(allowList...)

	return response.ProvideResponseLocalizer(l)
}

func Cors(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept-Language")
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

// Authorization verifies the bearer JWT and stashes the claims in the request
// context so the logic layer can read them without touching gin.
func Authorization(appCore *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenValue := c.GetHeader(security.TOKEN_KEY)
		tokenValue = strings.TrimPrefix(tokenValue, "Bearer ")
		if tokenValue == "" {
			response.APIError(c, errors.New("middleware.Authorization", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
			return
		}

		claims, err := security.VerifyToken(tokenValue, []byte(appCore.Cfg().Security.JWTSecret))
		if err != nil {
			response.APIError(c, errors.New("middleware.Authorization", i18n.ERROR_INVALID_TOKEN, err).Code(http.StatusUnauthorized))
			return
		}

		c.Set("user", claims.User)
		c.Request = c.Request.WithContext(v1.WithUserInfo(c.Request.Context(), claims))
	}
}

// RequirePermission gates a route group on the RBAC role hierarchy.
func RequirePermission(appCore *core.Core, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := v1.SetupUserInfo(c.Request.Context())
		if !appCore.Srv().RBAC().CheckPermission(info.GetRole(), permission) {
			response.APIError(c, errors.New("middleware.RequirePermission", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden))
			return
		}
	}
}

type LimiterFunc func(key string, r rate.Limit, burst int) gin.HandlerFunc

type limiterRegistry struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

var limiters = &limiterRegistry{limiters: make(map[string]*rate.Limiter)}

func (r *limiterRegistry) get(key string, limit rate.Limit, burst int) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.limiters[key]
	if !ok {
		l = rate.NewLimiter(limit, burst)
		r.limiters[key] = l
	}
	return l
}

// UseLimit throttles by a caller-derived key, one token bucket per key.
func UseLimit(operation string, genKeyFunc func(c *gin.Context) string, limit rate.Limit, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := operation + ":" + genKeyFunc(c)
		if !limiters.get(key, limit, burst).Allow() {
			response.APIError(c, errors.New("middleware.limiter", i18n.ERROR_TOO_MANY_REQUESTS, nil).Code(http.StatusTooManyRequests))
		}
	}
}
