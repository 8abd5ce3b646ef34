package handlers

import (
	"net/http"
	"strconv"
	"time"

	"quill/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostHandler struct {
	base
	posts *service.PostService
}

func NewPostHandler(posts *service.PostService, log *zap.Logger, timeout time.Duration) *PostHandler {
	return &PostHandler{base: base{log: log, timeout: timeout}, posts: posts}
}

// GET /api/posts
func (h *PostHandler) List(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.posts.List(ctx, service.ListQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Author:   c.Query("author"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	post, err := h.posts.Get(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req service.PostInput
	if !h.bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	post, err := h.posts.Create(ctx, userID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// PUT /api/posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req service.PostInput
	if !h.bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	post, err := h.posts.Update(ctx, userID, c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DELETE /api/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.posts.Delete(ctx, userID, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post removed"})
}

type commentRequest struct {
	Text string `json:"text"`
}

// POST /api/posts/:id/comment
func (h *PostHandler) Comment(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req commentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	comments, err := h.posts.AddComment(ctx, userID, c.Param("id"), req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// PUT /api/posts/:id/like
func (h *PostHandler) Like(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	likes, err := h.posts.ToggleLike(ctx, userID, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, likes)
}
