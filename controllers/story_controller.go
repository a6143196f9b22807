package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"snaptika-api/services"
)

type StoryController struct {
	stories *services.StoryService
}

func NewStoryController(stories *services.StoryService) *StoryController {
	return &StoryController{stories: stories}
}

func (sc *StoryController) CreateStory(c *gin.Context) {
	userID := c.GetString("user_id")

	var input services.CreateStoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	story, err := sc.stories.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err, "Failed to create story")
		return
	}

	c.JSON(http.StatusCreated, story)
}

func (sc *StoryController) GetStories(c *gin.Context) {
	viewerID := c.GetString("user_id")
	skip, take := pagination(c)

	response, err := sc.stories.FindAll(c.Request.Context(), viewerID, skip, take)
	if err != nil {
		respondError(c, err, "Failed to fetch stories")
		return
	}

	c.JSON(http.StatusOK, response)
}

func (sc *StoryController) GetUserStories(c *gin.Context) {
	viewerID := c.GetString("user_id")
	skip, take := pagination(c)

	response, err := sc.stories.FindUserStories(c.Request.Context(), c.Param("id"), viewerID, skip, take)
	if err != nil {
		respondError(c, err, "Failed to fetch stories")
		return
	}

	c.JSON(http.StatusOK, response)
}

func (sc *StoryController) GetStory(c *gin.Context) {
	viewerID := c.GetString("user_id")

	story, err := sc.stories.FindOne(c.Request.Context(), c.Param("id"), viewerID)
	if err != nil {
		respondError(c, err, "Failed to fetch story")
		return
	}

	c.JSON(http.StatusOK, story)
}

func (sc *StoryController) DeleteStory(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := sc.stories.Remove(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err, "Failed to delete story")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Story deleted successfully"})
}

func (sc *StoryController) ViewStory(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := sc.stories.View(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err, "Failed to record story view")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Story view recorded"})
}

func (sc *StoryController) GetStoryViewers(c *gin.Context) {
	userID := c.GetString("user_id")
	skip, take := pagination(c)

	viewers, err := sc.stories.Viewers(c.Request.Context(), c.Param("id"), userID, skip, take)
	if err != nil {
		respondError(c, err, "Failed to fetch story viewers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"viewers": viewers})
}
