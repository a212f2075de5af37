package middleware

import (
	"net/http"
	"strings"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/apierror"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/service"

	"github.com/gin-gonic/gin"
)

const PrincipalKey = "principal"

// AccessGate is the part of service.AuthService the middleware needs.
type AccessGate interface {
	Authenticate(token string) (*service.Principal, error)
	VerifyRole(p *service.Principal, roles ...string) error
}

// JWTAuth validates the Bearer token on every protected route and stores the
// caller's principal in the context.
func JWTAuth(gate AccessGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Not authenticated"))
			return
		}

		p, err := gate.Authenticate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(err.Error()))
			return
		}

		c.Set(PrincipalKey, p)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not in roles. Must run after JWTAuth.
func RequireRole(gate AccessGate, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := gate.VerifyRole(GetPrincipal(c), roles...); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New(err.Error()))
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the authenticated caller, or nil on public routes.
func GetPrincipal(c *gin.Context) *service.Principal {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*service.Principal)
	return p
}
