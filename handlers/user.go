package handlers

import (
	"log"
	"net/http"

	"legacykeeper/auth"
	"legacykeeper/db"
	"legacykeeper/email"
	"legacykeeper/models"

	"github.com/gin-gonic/gin"
)

type UserRegisterRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
type UserInfo struct {
	ID       uint64 `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

func userInfo(user *models.User) UserInfo {
	return UserInfo{ID: user.ID, FullName: user.FullName, Email: user.Email}
}

// UserRegister creates an inactive account and mails the verification link.
func UserRegister(c *gin.Context) {
	postReq := UserRegisterRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		BadRequest(c, err.Error())
		return
	}
	user, err := models.UserCreate(postReq.FullName, postReq.Email, postReq.Password)
	if err != nil {
		if db.IsDuplicateKey(err) {
			Error(c, models.NewConflictError(models.CodeAccountExists, "an account with this email already exists"))
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
		return
	}
	if err := email.SendVerification(user.Email, user.VerificationToken); err != nil {
		log.Printf("verification email to %s failed: %v", user.Email, err)
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "user": userInfo(&user)})
}

// UserVerify activates the account and bootstraps the first vault.
func UserVerify(c *gin.Context) {
	user, err := models.UserVerify(c.Query("token"))
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "user": userInfo(&user)})
}

func UserLogin(c *gin.Context) {
	postReq := UserLoginRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		BadRequest(c, err.Error())
		return
	}
	user, success := models.UserLogin(postReq.Email, postReq.Password)
	if !success {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials or unverified account"})
		return
	}
	auth.LoadSession(c).SetUser(user.ID)
	c.JSON(http.StatusOK, gin.H{"error": "", "user": userInfo(&user)})
}

func UserLogout(c *gin.Context, user *models.User) {
	auth.LoadSession(c).LogoutUser()
	c.JSON(http.StatusOK, gin.H{"error": ""})
}

func UserStatus(c *gin.Context, user *models.User) {
	c.JSON(http.StatusOK, gin.H{"error": "", "user": userInfo(user)})
}

func UserRequestPasswordReset(c *gin.Context) {
	request := struct {
		Email string `json:"email" binding:"required"`
	}{}
	if err := c.ShouldBindJSON(&request); err != nil {
		BadRequest(c, err.Error())
		return
	}
	user, err := models.UserRequestPasswordReset(request.Email)
	if err == nil {
		if err := email.SendPasswordReset(user.Email, user.ResetToken); err != nil {
			log.Printf("reset email to %s failed: %v", user.Email, err)
		}
	}
	// Same answer whether the email exists or not
	c.JSON(http.StatusOK, gin.H{"error": ""})
}

func UserResetPassword(c *gin.Context) {
	request := struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}{}
	if err := c.ShouldBindJSON(&request); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := models.UserResetPassword(request.Token, request.Password); err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": ""})
}
