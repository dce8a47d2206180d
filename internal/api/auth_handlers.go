package api

import (
	"net/http"
	"time"

	"resq-relief/resq/internal/auth"
	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/models/dtos"
)

func (h *Handlers) setTokenCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.deps.Config.AppEnv == "production",
		SameSite: http.SameSiteLaxMode,
	})
}

// Register handles POST /api/auth/register
//
// @Summary      Register a VOLUNTEER, DONOR or VICTIM account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.RegisterRequest  true  "Signup payload"
// @Success      201  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Router       /api/auth/register [post]
func (h *Handlers) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.RegisterRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		resp, err := h.deps.Services.Auth.Register(r.Context(), req)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		h.setTokenCookie(w, resp.Token, h.deps.Config.JWT.Expiry)
		common.RespondSuccess(w, "User registered successfully", resp, http.StatusCreated)
	}
}

// Login handles POST /api/auth/login
//
// @Summary      Log in with email and password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.LoginRequest  true  "Credentials"
// @Success      200  {object}  dtos.APIResponse
// @Failure      401  {object}  dtos.APIResponse
// @Failure      403  {object}  dtos.APIResponse
// @Router       /api/auth/login [post]
func (h *Handlers) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.LoginRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		resp, err := h.deps.Services.Auth.Login(r.Context(), req)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		h.setTokenCookie(w, resp.Token, h.deps.Config.JWT.Expiry)
		common.RespondSuccess(w, "Login successful", resp)
	}
}

// Logout handles POST /api/auth/logout
//
// @Summary      Revoke the current token
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/auth/logout [post]
func (h *Handlers) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if claims := auth.GetUserClaims(r.Context()); claims != nil {
			h.deps.Services.Auth.Logout(claims)
		}
		h.setTokenCookie(w, "", -time.Second)
		common.RespondSuccess(w, "Logged out successfully", nil)
	}
}

// Me handles GET /api/auth/me
func (h *Handlers) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.deps.Services.Auth.Me(r.Context(), actor(r))
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "", user)
	}
}

// UpdateProfile handles PUT /api/auth/profile
func (h *Handlers) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.UpdateProfileRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		user, err := h.deps.Services.Auth.UpdateProfile(r.Context(), actor(r), req)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Profile updated successfully", user)
	}
}

// ChangePassword handles PUT /api/auth/password
func (h *Handlers) ChangePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.ChangePasswordRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		if err := h.deps.Services.Auth.ChangePassword(r.Context(), actor(r), req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Password changed successfully", nil)
	}
}
