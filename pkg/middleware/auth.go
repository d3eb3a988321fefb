package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	ctxUID  = "uid"
	ctxName = "user_name"
	ctxRole = "user_role"

	DevUID = "U_DEV_DEFAULT"
)

// User is the caller injected by Auth.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for u.
func IssueToken(secret string, u User, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret not configured")
	}
	now := time.Now()
	claims := Claims{
		Name: u.Name,
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseToken(secret, raw string) (User, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return User{}, err
	}
	if claims.Subject == "" {
		return User{}, fmt.Errorf("token has no subject")
	}
	return User{ID: claims.Subject, Name: claims.Name, Role: claims.Role}, nil
}

// Auth verifies the bearer token and stores the caller on the context. With
// dev enabled, requests without a token run as X-Dev-User (or DevUID).
func Auth(secret string, dev bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(h, "Bearer ")
			var u User
			switch {
			case ok && secret != "":
				var err error
				u, err = parseToken(secret, strings.TrimSpace(raw))
				if err != nil {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
				}
			case dev:
				u = User{ID: c.Request().Header.Get("X-Dev-User"), Name: "Developer", Role: "farmer"}
				if u.ID == "" {
					u.ID = DevUID
				}
			default:
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			SetUser(c, u)
			return next(c)
		}
	}
}

func SetUser(c echo.Context, u User) {
	c.Set(ctxUID, u.ID)
	c.Set(ctxName, u.Name)
	c.Set(ctxRole, u.Role)
}

// CurrentUser reads what Auth stored.
func CurrentUser(c echo.Context) User {
	id, _ := c.Get(ctxUID).(string)
	name, _ := c.Get(ctxName).(string)
	role, _ := c.Get(ctxRole).(string)
	return User{ID: id, Name: name, Role: role}
}

// UID is the farmer scope for every query.
func UID(c echo.Context) string {
	id, _ := c.Get(ctxUID).(string)
	return id
}

// Actor names the caller in audit fields: the display name, else the id.
func Actor(c echo.Context) string {
	if u := CurrentUser(c); u.Name != "" {
		return u.Name
	}
	return UID(c)
}
