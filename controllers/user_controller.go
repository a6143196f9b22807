package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"snaptika-api/services"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (uc *UserController) GetUsers(c *gin.Context) {
	skip, take := pagination(c)

	response, err := uc.users.FindAll(c.Request.Context(), c.Query("search"), skip, take)
	if err != nil {
		respondError(c, err, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, response)
}

func (uc *UserController) GetUser(c *gin.Context) {
	viewerID := c.GetString("user_id")

	profile, err := uc.users.FindOne(c.Request.Context(), c.Param("id"), viewerID)
	if err != nil {
		respondError(c, err, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (uc *UserController) GetUserByUsername(c *gin.Context) {
	viewerID := c.GetString("user_id")

	profile, err := uc.users.FindByUsername(c.Request.Context(), c.Param("username"), viewerID)
	if err != nil {
		respondError(c, err, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var input services.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := uc.users.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (uc *UserController) FollowUser(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := uc.users.Follow(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to follow user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User followed successfully"})
}

func (uc *UserController) UnfollowUser(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := uc.users.Unfollow(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to unfollow user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unfollowed successfully"})
}

func (uc *UserController) GetFollowers(c *gin.Context) {
	skip, take := pagination(c)

	followers, err := uc.users.GetFollowers(c.Request.Context(), c.Param("id"), skip, take)
	if err != nil {
		respondError(c, err, "Failed to fetch followers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"followers": followers})
}

func (uc *UserController) GetFollowing(c *gin.Context) {
	skip, take := pagination(c)

	following, err := uc.users.GetFollowing(c.Request.Context(), c.Param("id"), skip, take)
	if err != nil {
		respondError(c, err, "Failed to fetch following")
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}
