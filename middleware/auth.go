package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/print-shop-api/config"
	"github.com/kendall-kelly/print-shop-api/logger"
	"github.com/kendall-kelly/print-shop-api/models"
)

const (
	userIDKey          = "user_id"
	validatedClaimsKey = "validated_claims"
	sessionKey         = "session"
)

// CustomClaims contains the shop data carried by an access token.
type CustomClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Validate rejects tokens without a known role.
func (c CustomClaims) Validate(ctx context.Context) error {
	switch c.Role {
	case models.RoleAdmin, models.RoleStaff, models.RoleCustomer:
		return nil
	}
	return fmt.Errorf("unknown role %q", c.Role)
}

// SessionResolver turns the token subject into the acting session
type SessionResolver interface {
	Resolve(userID string) (models.Session, error)
}

// Authenticator validates bearer tokens issued at login
type Authenticator struct {
	validator *validator.Validator
	resolver  SessionResolver
	log       *logger.Logger
}

// NewAuthenticator builds an HS256 validator from the JWT settings in cfg
func NewAuthenticator(cfg *config.Config, resolver SessionResolver, log *logger.Logger) (*Authenticator, error) {
	secret := []byte(cfg.JWTSecret)
	keyFunc := func(context.Context) (interface{}, error) {
		return secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the jwt validator: %w", err)
	}

	return &Authenticator{
		validator: jwtValidator,
		resolver:  resolver,
		log:       log.WithComponent("auth"),
	}, nil
}

// EnsureValidToken rejects requests without a valid bearer token.
func (a *Authenticator) EnsureValidToken() gin.HandlerFunc {
	return a.handler(false)
}

// OptionalToken lets requests without a token through as guests. A token
// that is present must still be valid.
func (a *Authenticator) OptionalToken() gin.HandlerFunc {
	return a.handler(true)
}

func (a *Authenticator) handler(optional bool) gin.HandlerFunc {
	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		a.log.Warn("encountered error while validating JWT", "error", err, "path", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`)); writeErr != nil {
			a.log.Error("failed to write error response", "error", writeErr)
		}
	}

	middleware := jwtmiddleware.New(
		a.validator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
		jwtmiddleware.WithCredentialsOptional(optional),
	)

	return func(c *gin.Context) {
		reached := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			reached = true
			c.Request = r

			claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if !ok {
				// No token on an optional route
				c.Set(sessionKey, models.GuestSession())
				c.Next()
				return
			}

			userID := claims.RegisteredClaims.Subject
			session, err := a.resolver.Resolve(userID)
			if err != nil {
				a.log.Warn("token subject does not resolve to an active user", "user_id", userID, "error", err)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INVALID_TOKEN",
						"message": "The account behind this token is no longer active",
					},
				})
				return
			}

			c.Set(userIDKey, userID)
			c.Set(validatedClaimsKey, claims)
			c.Set(sessionKey, session)
			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		if !reached {
			c.Abort()
		}
	}
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(validatedClaimsKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// GetSession returns the acting session. Requests that passed no auth
// middleware act as guests.
func GetSession(c *gin.Context) models.Session {
	if v, ok := c.Get(sessionKey); ok {
		if session, ok := v.(models.Session); ok {
			return session
		}
	}
	return models.GuestSession()
}

// SetSession stores session on the context
func SetSession(c *gin.Context, session models.Session) {
	c.Set(sessionKey, session)
}

// RequireRole is a middleware that checks the acting user holds one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		if session.IsGuest() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}

		for _, role := range roles {
			if session.HasRole(role) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Insufficient permissions to access this resource",
			},
		})
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
