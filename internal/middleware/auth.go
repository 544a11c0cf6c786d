package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenExpiry = 24 * time.Hour
	CookieName  = "sysdash_token"

	// tokenSubject is the only principal: the dashboard has a single access password.
	tokenSubject = "dashboard"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLockedOut          = errors.New("too many failed attempts")
)

type Claims struct {
	jwt.RegisteredClaims
}

// AuthService issues and checks tokens for the single dashboard password and
// locks out clients after repeated failures.
type AuthService struct {
	secret       []byte
	passwordHash string
	mu           sync.Mutex
	failures     map[string]*authFailure
	now          func() time.Time
}

type authFailure struct {
	count        int
	lastAttempt  time.Time
	lockoutUntil time.Time
}

// NewAuthService signs tokens with secret and accepts the password whose
// bcrypt hash is passwordHash.
func NewAuthService(secret, passwordHash string) *AuthService {
	return &AuthService{
		secret:       []byte(secret),
		passwordHash: passwordHash,
		failures:     make(map[string]*authFailure),
		now:          time.Now,
	}
}

// HashPassword returns a bcrypt hash suitable for access_password_hash.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (a *AuthService) GenerateToken() (string, error) {
	now := a.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   tokenSubject,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// Login checks password for the client identified by key. A locked-out client
// gets ErrLockedOut and the remaining wait, whatever the password.
func (a *AuthService) Login(key, password string) (string, time.Duration, error) {
	if retryAfter, locked := a.checkLockout(key); locked {
		return "", retryAfter, ErrLockedOut
	}
	if a.passwordHash == "" || !CheckPassword(password, a.passwordHash) {
		if retryAfter, locked := a.recordFailure(key); locked {
			return "", retryAfter, ErrLockedOut
		}
		return "", 0, ErrInvalidCredentials
	}
	a.clearFailures(key)
	token, err := a.GenerateToken()
	return token, 0, err
}

// SetAuthCookie stores token in an HttpOnly cookie for browser clients.
func SetAuthCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   requestIsSecure(c),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(TokenExpiry.Seconds()),
	})
}

func requestIsSecure(c *gin.Context) bool {
	return c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}

// tokenFromRequest prefers the Authorization header, then the cookie, then a
// token query parameter (browsers cannot set headers on WebSocket upgrades).
func tokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie
	}
	return c.Query("token")
}

func abortLockedOut(c *gin.Context, retryAfter time.Duration) {
	c.Header("Retry-After", fmt.Sprintf("%.0f", retryAfter.Seconds()))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       "Too many unauthorized attempts",
		"retry_after": int(retryAfter.Seconds()),
	})
}

// RequireAPIAuth rejects requests without a valid token with a JSON 401.
func (a *AuthService) RequireAPIAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if retryAfter, locked := a.checkLockout(key); locked {
			abortLockedOut(c, retryAfter)
			return
		}

		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			if retryAfter, locked := a.recordFailure(key); locked {
				abortLockedOut(c, retryAfter)
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header or cookie required"})
			return
		}

		if _, err := a.ValidateToken(tokenString); err != nil {
			if retryAfter, locked := a.recordFailure(key); locked {
				abortLockedOut(c, retryAfter)
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		a.clearFailures(key)
		c.Next()
	}
}

func (a *AuthService) checkLockout(key string) (time.Duration, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, ok := a.failures[key]
	if !ok {
		return 0, false
	}
	now := a.now()
	if rec.lockoutUntil.After(now) {
		return rec.lockoutUntil.Sub(now), true
	}
	return 0, false
}

// recordFailure counts a failed attempt; the third within five minutes locks
// the client out for 15s per attempt, capped at two minutes.
func (a *AuthService) recordFailure(key string) (time.Duration, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	rec, ok := a.failures[key]
	if !ok {
		rec = &authFailure{}
		a.failures[key] = rec
	}
	if rec.lockoutUntil.After(now) {
		return rec.lockoutUntil.Sub(now), true
	}
	if now.Sub(rec.lastAttempt) > 5*time.Minute {
		rec.count = 0
	}

	rec.lastAttempt = now
	rec.count++

	if rec.count >= 3 {
		lockout := time.Duration(rec.count) * 15 * time.Second
		if lockout > 2*time.Minute {
			lockout = 2 * time.Minute
		}
		rec.lockoutUntil = now.Add(lockout)
		rec.count = 0
		return lockout, true
	}
	return 0, false
}

func (a *AuthService) clearFailures(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.failures, key)
}
