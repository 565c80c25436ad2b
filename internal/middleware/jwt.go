package middleware // middleware contains reusable echo middleware for the storefront

import (
	"net/http" // HTTP status codes for responses
	"strconv"  // numeric subject claims
	"strings"  // bearer prefix handling

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/ticketfella/internal/model"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// issued by the authentication service and stores the purchaser identity
// it names in the request context.  The storefront never issues tokens
// itself; it only needs the shared HS256 secret to verify them.
// Handlers read the identity with PurchaserFrom.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token", "code": "unauthorized"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Reject anything that is not HMAC signed before handing out the key.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token", "code": "unauthorized"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims", "code": "unauthorized"})
			}
			uid, ok := subjectID(claims["sub"])
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject", "code": "unauthorized"})
			}
			role, _ := claims["role"].(string)

			c.Set(purchaserKey, model.Purchaser{UserID: uid, Role: role})
			return next(c)
		}
	}
}

// subjectID accepts the numeric and string encodings of the sub claim.
func subjectID(v interface{}) (uint64, bool) {
	switch t := v.(type) {
	case float64:
		if t <= 0 || t != float64(uint64(t)) {
			return 0, false
		}
		return uint64(t), true
	case string:
		n, err := strconv.ParseUint(t, 10, 64)
		if err != nil || n == 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
