package middleware

import (
	"crypto/subtle"
	"strings"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/logger"
	"rentease_backend/internal/models"
	"rentease_backend/pkg/apperrors"
	"rentease_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - middleware проверки JWT. Сессия создается один раз
// и дальше передается только по значению.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		session, err := tokens.Parse(token)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		setSession(c, session)
		c.Next()
	}
}

// OptionalAuth - как AuthMiddleware, но запрос без токена пропускается
// анонимно. Невалидный токен все равно отклоняется.
func OptionalAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		session, err := tokens.Parse(token)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		setSession(c, session)
		c.Next()
	}
}

// RequireRoles - доступ только для перечисленных ролей
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
			return
		}
		if !roleSet[session.Role()] {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// RequirePermission - доступ по разрешению из таблицы ролей
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
			return
		}
		if !session.Can(permission) {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// RequireAPIKey - серверные вызовы по заголовку X-API-Key.
// Пустой ключ в конфиге закрывает эндпоинт полностью.
func RequireAPIKey(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-API-Key")
		if apiKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			apperrors.HandleError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}

// GetSession извлекает сессию из контекста
func GetSession(c *gin.Context) (auth.Session, bool) {
	v, exists := c.Get(string(contextkeys.SessionContextKey))
	if !exists {
		return auth.Session{}, false
	}
	session, ok := v.(auth.Session)
	if !ok || session.IsZero() {
		return auth.Session{}, false
	}
	return session, true
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	session, ok := GetSession(c)
	if !ok {
		return ""
	}
	return session.UserID()
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

func setSession(c *gin.Context, session auth.Session) {
	c.Set(string(contextkeys.SessionContextKey), session)
	c.Set("userID", session.UserID())
	c.Set("role", session.Role())
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), session.UserID()))
}
