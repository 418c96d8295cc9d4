package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"tasktracker/internal/config"
	"tasktracker/internal/middleware"
	"tasktracker/internal/model"
	"tasktracker/internal/repository"
	"tasktracker/internal/session"
	"tasktracker/internal/token"
	"tasktracker/internal/utils"
)

// storeTimeout bounds every store call made from a handler.
const storeTimeout = 5 * time.Second

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users repository.UserStore
}

func NewAuthHandler(cfg config.Config, users repository.UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResp echoes the identity back after register/login. The email rides
// along in the body but never enters the token claim.
type authResp struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	UserID string `json:"userId"`
}

// currentUserResp is the user record with the password hash stripped.
type currentUserResp struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// issueSession signs a session token for the user and attaches it to the
// response as the signed cookie. The cookie lifetime matches the token TTL.
func (h *AuthHandler) issueSession(c echo.Context, u model.User) error {
	st, err := token.Issue(h.Cfg.JWTSecret, u.TokenUser(), h.Cfg.TokenTTL())
	if err != nil {
		return err
	}
	session.Attach(c, st.Token, h.Cfg.CookieSecret, st.Exp, h.Cfg.IsProd())
	return nil
}

// Register creates the user, issues a session cookie and echoes the
// identity back. All three fields are required.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Please provide all values!"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Please provide all values!"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Email already exists!"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Something went wrong, try again later!"})
	}

	if err := h.issueSession(c, u); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Something went wrong, try again later!"})
	}
	return c.JSON(http.StatusCreated, authResp{Name: u.Name, Email: u.Email, UserID: u.ID})
}

// Login verifies credentials and issues a fresh session cookie. An unknown
// email answers 400 while a wrong password answers 401; the original is
// deliberately asymmetric here and both carry the same message.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Please provide all values!"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Please provide all values!"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Invalid credentials!"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Something went wrong, try again later!"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Invalid credentials!"})
	}

	if err := h.issueSession(c, u); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Something went wrong, try again later!"})
	}
	return c.JSON(http.StatusOK, authResp{Name: u.Name, Email: u.Email, UserID: u.ID})
}

// GetCurrentUser returns the stored record for the authenticated identity,
// without the password hash.
func (h *AuthHandler) GetCurrentUser(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Authentication Invalid!"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Authentication Invalid!"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Something went wrong, try again later!"})
	}
	return c.JSON(http.StatusOK, currentUserResp{
		UserID:    u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	})
}

// Logout clears the session cookie. There is no server-side session to
// tear down, so logging out twice is the same as logging out once.
func (h *AuthHandler) Logout(c echo.Context) error {
	session.Clear(c, h.Cfg.IsProd())
	return c.JSON(http.StatusOK, echo.Map{"msg": "User logged out!"})
}
