package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"snaptika-api/services"
)

type PostController struct {
	posts *services.PostService
	feeds *services.FeedService
}

func NewPostController(posts *services.PostService, feeds *services.FeedService) *PostController {
	return &PostController{posts: posts, feeds: feeds}
}

// GetFeed serves the viewer's home feed: followed authors first, trending
// posts mixed in, first page cached.
func (pc *PostController) GetFeed(c *gin.Context) {
	userID := c.GetString("user_id")
	skip, take := pagination(c)

	response, err := pc.feeds.GetFeed(c.Request.Context(), userID, skip, take)
	if err != nil {
		respondError(c, err, "Failed to fetch feed")
		return
	}

	c.JSON(http.StatusOK, response)
}

func (pc *PostController) GetPosts(c *gin.Context) {
	userID := c.GetString("user_id")
	skip, take := pagination(c)

	response, err := pc.posts.FindAll(c.Request.Context(), userID, services.PostsFilter{
		Skip:     skip,
		Take:     take,
		Hashtag:  c.Query("hashtag"),
		AuthorID: c.Query("author_id"),
	})
	if err != nil {
		respondError(c, err, "Failed to fetch posts")
		return
	}

	c.JSON(http.StatusOK, response)
}

func (pc *PostController) CreatePost(c *gin.Context) {
	userID := c.GetString("user_id")

	var input services.CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := pc.posts.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err, "Failed to create post")
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (pc *PostController) GetPost(c *gin.Context) {
	userID := c.GetString("user_id")

	post, err := pc.posts.FindOne(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to fetch post")
		return
	}

	c.JSON(http.StatusOK, post)
}

func (pc *PostController) UpdatePost(c *gin.Context) {
	userID := c.GetString("user_id")

	var input services.UpdatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := pc.posts.Update(c.Request.Context(), c.Param("id"), userID, input)
	if err != nil {
		respondError(c, err, "Failed to update post")
		return
	}

	c.JSON(http.StatusOK, post)
}

func (pc *PostController) DeletePost(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := pc.posts.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err, "Failed to delete post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

func (pc *PostController) LikePost(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := pc.posts.Like(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err, "Failed to like post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post liked successfully"})
}

func (pc *PostController) UnlikePost(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := pc.posts.Unlike(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err, "Failed to unlike post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post unliked successfully"})
}

func (pc *PostController) ViewPost(c *gin.Context) {
	userID := c.GetString("user_id")
	duration, _ := strconv.Atoi(c.DefaultQuery("duration", "0"))

	if err := pc.posts.View(c.Request.Context(), c.Param("id"), userID, duration); err != nil {
		respondError(c, err, "Failed to record view")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post view recorded"})
}

func (pc *PostController) SharePost(c *gin.Context) {
	if err := pc.posts.Share(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to share post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post shared successfully"})
}

type createCommentRequest struct {
	Content string `json:"content" binding:"required,max=2200"`
}

func (pc *PostController) CreateComment(c *gin.Context) {
	userID := c.GetString("user_id")

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := pc.posts.CreateComment(c.Request.Context(), c.Param("id"), userID, req.Content)
	if err != nil {
		respondError(c, err, "Failed to create comment")
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (pc *PostController) GetComments(c *gin.Context) {
	skip, take := pagination(c)

	comments, total, err := pc.posts.ListComments(c.Request.Context(), c.Param("id"), skip, take)
	if err != nil {
		respondError(c, err, "Failed to fetch comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"total":    total,
		"has_more": int64(skip+take) < total,
	})
}
