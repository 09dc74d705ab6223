package api

import (
	"net/http"

	"github.com/UnknownOlympus/chronos/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) register(c *gin.Context) {
	var in service.RegisterInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}

	session, err := h.services.Accounts.Register(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, http.StatusCreated, gin.H{
		"message":   "User registered successfully",
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
		"user":      session.Account,
	})
}

func (h *Handler) login(c *gin.Context) {
	var in service.LoginInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}

	session, err := h.services.Accounts.Login(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{
		"message":   "Login successful",
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
		"user":      session.Account,
		"employee":  session.Employee,
	})
}

func (h *Handler) profile(c *gin.Context) {
	profile, err := h.services.Accounts.Profile(c.Request.Context(), callerFrom(c).AccountID)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"user": profile})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var in service.UpdateProfileInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}

	profile, err := h.services.Accounts.UpdateProfile(c.Request.Context(), callerFrom(c).AccountID, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"message": "Profile updated successfully", "user": profile})
}

func (h *Handler) changePassword(c *gin.Context) {
	var in service.ChangePasswordInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}

	if err := h.services.Accounts.ChangePassword(c.Request.Context(), callerFrom(c).AccountID, in); err != nil {
		h.fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"message": "Password changed successfully"})
}
