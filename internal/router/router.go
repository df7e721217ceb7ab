package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"accountsvc/internal/config"
	"accountsvc/internal/handler"
)

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, userHandler *handler.UserHandler) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	users := api.Group("/users")

	// Public routes
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)
	users.POST("/refresh", userHandler.Refresh)
	users.POST("/logout", userHandler.Logout)

	// Secured routes: the JWT middleware is only the coarse gate rejecting
	// missing or garbage bearer tokens. Ownership is checked per request by
	// the access validator, which re-verifies the token itself.
	secured := users.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:       []byte(cfg.JWTSecret),
		TokenLookupFuncs: []middleware.ValuesExtractor{bearerOrBareToken},
	}))

	secured.GET("/:id", userHandler.Get)
	secured.PATCH("/:id", userHandler.Patch)
	secured.DELETE("/:id", userHandler.Delete)
}

// bearerOrBareToken extracts the token from the Authorization header,
// accepting both "Bearer <token>" and a bare token, the same optional-prefix
// handling the access validator applies.
func bearerOrBareToken(c echo.Context) ([]string, error) {
	header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	if header == "" {
		return nil, errors.New("missing authorization header")
	}
	return []string{strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))}, nil
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
