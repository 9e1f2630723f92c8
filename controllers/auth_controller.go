package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PMark-est/catshelp/config"
	"github.com/PMark-est/catshelp/utils"
)

// login links stay valid this long
const loginTokenTTL = 15 * time.Minute

// AuthController handles the magic-link login flow.
type AuthController struct{}

func NewAuthController() *AuthController {
	return &AuthController{}
}

// Login emails a signed login link to the submitted address. The mail
// delivery is a side effect; the response is "Success" either way and
// failures are only logged.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		ID    int64  `json:"id"`
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	token, err := utils.GenerateLoginToken(req.ID, req.Email, loginTokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to issue login token")
		return
	}

	cfg := config.Get()
	link := fmt.Sprintf("%s/api/verify?token=%s", cfg.BaseURL, token)
	go func() {
		body := fmt.Sprintf("Tere!\n\nSisene Catshelpi keskkonda siit:\n%s\n\nLink aegub 15 minuti pärast.", link)
		if err := utils.SendMail(req.Email, "Catshelp sisselogimine", body); err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Warnw("login mail failed", "email", req.Email, "error", err)
			}
		}
	}()

	ctx.JSON(http.StatusOK, "Success")
}

// Verify checks the signed token from the login link. A valid, unused
// token redirects into the dashboard; anything else is 401. Tokens are
// single use.
func (a *AuthController) Verify(ctx *gin.Context) {
	token := ctx.Query("token")
	if token == "" {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	if utils.IsTokenBlacklisted(token) {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	claims, err := utils.ParseLoginToken(token)
	if err != nil {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	utils.BlacklistToken(token, claims.ExpiresAt.Time)
	ctx.Redirect(http.StatusFound, "/dashboard")
}
