package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitboard/backend/internal/common"
	"github.com/fitboard/backend/internal/middleware"
	"github.com/fitboard/backend/internal/models"
)

type PostHandler struct {
	db *gorm.DB
}

func NewPostHandler(db *gorm.DB) *PostHandler {
	return &PostHandler{db: db}
}

// CreatePost creates a post inside one transaction: the post row, its
// ordered images and both denormalized counters commit together or not at
// all.
func (h *PostHandler) CreatePost(c *gin.Context) {
	ident := middleware.Identity(c)

	var input struct {
		BoardID    int      `json:"boardId" binding:"required"`
		Title      string   `json:"title" binding:"required"`
		Content    string   `json:"content" binding:"required"`
		Type       string   `json:"type"`
		Visibility string   `json:"visibility"`
		Images     []string `json:"images"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		common.Error(c, http.StatusBadRequest, "Board ID, title and content are required.")
		return
	}
	if input.Type == "" {
		input.Type = "text"
	}
	if input.Visibility == "" {
		input.Visibility = "public"
	}

	var post models.Post
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var board models.Board
		if err := tx.Where("id = ? AND is_active = ?", input.BoardID, true).First(&board).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrBoardNotFound
			}
			return err
		}

		if board.IsPrivate {
			var moderators int64
			if err := tx.Model(&models.BoardModerator{}).
				Where("board_id = ? AND user_id = ?", board.ID, ident.UserID).
				Count(&moderators).Error; err != nil {
				return err
			}
			if moderators == 0 {
				return common.ErrForbidden
			}
		}

		post = models.Post{
			BoardID:    input.BoardID,
			UserID:     ident.UserID,
			Title:      input.Title,
			Content:    input.Content,
			Type:       input.Type,
			Visibility: input.Visibility,
			Status:     "published",
		}
		if err := tx.Create(&post).Error; err != nil {
			return err
		}

		if len(input.Images) > 0 {
			images := make([]models.PostImage, len(input.Images))
			for i, url := range input.Images {
				images[i] = models.PostImage{PostID: post.ID, ImageURL: url, SortOrder: i}
			}
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Board{}).Where("id = ?", board.ID).
			UpdateColumn("posts_count", gorm.Expr("posts_count + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", ident.UserID).
			UpdateColumn("posts_count", gorm.Expr("posts_count + 1")).Error
	})
	if err != nil {
		h.failPost(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully.",
		"post": gin.H{
			"postId":     post.ID,
			"title":      post.Title,
			"content":    post.Content,
			"type":       post.Type,
			"visibility": post.Visibility,
			"createdAt":  post.CreatedAt,
			"images":     input.Images,
		},
	})
}

// GetPosts lists non-deleted posts, newest first, with optional boardId,
// userId and q filters. The total count is computed over the same filtered
// predicate as the page itself, matching the search endpoint.
func (h *PostHandler) GetPosts(c *gin.Context) {
	boardID := c.Query("boardId")
	userID := c.Query("userId")
	q := c.Query("q")
	page, limit := parsePagination(c)

	query := h.db.Model(&models.Post{}).Where("is_deleted = ?", false)
	if boardID != "" {
		query = query.Where("board_id = ?", boardID)
	}
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if q != "" {
		query = applySearch(query, q)
	}

	posts, pagination, err := h.queryPage(query, page, limit)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":      posts,
		"pagination": pagination,
	})
}

// SearchPosts matches q against title and content. Unlike listing, a blank
// query is a validation error.
func (h *PostHandler) SearchPosts(c *gin.Context) {
	q := c.Query("q")
	if strings.TrimSpace(q) == "" {
		common.Error(c, http.StatusBadRequest, "Search query is required.")
		return
	}
	page, limit := parsePagination(c)

	query := applySearch(h.db.Model(&models.Post{}).Where("is_deleted = ?", false), q)

	posts, pagination, err := h.queryPage(query, page, limit)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":      posts,
		"pagination": pagination,
	})
}

// GetPost returns the detail projection. The view counter is incremented
// with a single atomic statement before the read, so the reported value is
// the persisted post-increment value and never under-counts.
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("postId"))
	if err != nil {
		common.Error(c, http.StatusNotFound, "Post not found.")
		return
	}

	res := h.db.Model(&models.Post{}).
		Where("id = ? AND is_deleted = ?", postID, false).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if res.Error != nil {
		common.Fail(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		common.Error(c, http.StatusNotFound, "Post not found.")
		return
	}

	var post models.Post
	if err := h.db.Preload("User").Preload("Board").
		Where("id = ? AND is_deleted = ?", postID, false).
		First(&post).Error; err != nil {
		// The post can be soft-deleted between the increment and this read.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Error(c, http.StatusNotFound, "Post not found.")
			return
		}
		common.Fail(c, err)
		return
	}

	var images []models.PostImage
	if err := h.db.Where("post_id = ?", post.ID).Order("sort_order").Find(&images).Error; err != nil {
		common.Fail(c, err)
		return
	}
	imageURLs := make([]string, len(images))
	for i, img := range images {
		imageURLs[i] = img.ImageURL
	}

	detail := postSummary(&post)
	detail["imageUrls"] = imageURLs
	c.JSON(http.StatusOK, detail)
}

// UpdatePost edits a post. Title, content and visibility are each
// independently optional and keep their prior value when absent; a supplied
// image list fully replaces the old one, so an empty list clears all images.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	ident := middleware.Identity(c)
	postID, err := strconv.Atoi(c.Param("postId"))
	if err != nil {
		common.Error(c, http.StatusNotFound, "Post not found.")
		return
	}

	var input struct {
		Title      *string   `json:"title"`
		Content    *string   `json:"content"`
		Visibility *string   `json:"visibility"`
		Images     *[]string `json:"images"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		common.Error(c, http.StatusBadRequest, "Invalid request body.")
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Where("id = ? AND is_deleted = ?", postID, false).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrPostNotFound
			}
			return err
		}

		if post.UserID != ident.UserID && ident.Role != "admin" {
			return common.ErrForbidden
		}

		// updated_at is refreshed on every edit, image-only edits included.
		updates := map[string]interface{}{"updated_at": time.Now().UTC()}
		if input.Title != nil {
			updates["title"] = *input.Title
		}
		if input.Content != nil {
			updates["content"] = *input.Content
		}
		if input.Visibility != nil {
			updates["visibility"] = *input.Visibility
		}
		if err := tx.Model(&post).Updates(updates).Error; err != nil {
			return err
		}

		if input.Images != nil {
			if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostImage{}).Error; err != nil {
				return err
			}
			if len(*input.Images) > 0 {
				images := make([]models.PostImage, len(*input.Images))
				for i, url := range *input.Images {
					images[i] = models.PostImage{PostID: post.ID, ImageURL: url, SortOrder: i}
				}
				if err := tx.Create(&images).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		h.failPost(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post updated successfully."})
}

// DeletePost soft-deletes a post and decrements the author's and the
// board's postsCount in the same transaction. Decrements are floored at
// zero.
func (h *PostHandler) DeletePost(c *gin.Context) {
	ident := middleware.Identity(c)
	postID, err := strconv.Atoi(c.Param("postId"))
	if err != nil {
		common.Error(c, http.StatusNotFound, "Post not found.")
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Where("id = ? AND is_deleted = ?", postID, false).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrPostNotFound
			}
			return err
		}

		if post.UserID != ident.UserID && ident.Role != "admin" {
			return common.ErrForbidden
		}

		if err := tx.Model(&post).Update("is_deleted", true).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ? AND posts_count > 0", post.UserID).
			UpdateColumn("posts_count", gorm.Expr("posts_count - 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.Board{}).
			Where("id = ? AND posts_count > 0", post.BoardID).
			UpdateColumn("posts_count", gorm.Expr("posts_count - 1")).Error
	})
	if err != nil {
		h.failPost(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully."})
}

// ToggleLike flips the liked state for (post, caller). Like row, counter
// and notification move in one transaction; the unique pair index keeps
// concurrent toggles from double-inserting.
func (h *PostHandler) ToggleLike(c *gin.Context) {
	ident := middleware.Identity(c)
	postID, err := strconv.Atoi(c.Param("postId"))
	if err != nil {
		common.Error(c, http.StatusNotFound, "Post not found.")
		return
	}

	liked := false
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Where("id = ? AND is_deleted = ?", postID, false).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrPostNotFound
			}
			return err
		}

		var existing models.PostLike
		err := tx.Where("post_id = ? AND user_id = ?", post.ID, ident.UserID).First(&existing).Error
		switch {
		case err == nil:
			// liked -> not liked
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			return tx.Model(&post).UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			// not liked -> liked
			like := models.PostLike{PostID: post.ID, UserID: ident.UserID}
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
			if err := tx.Model(&post).UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
				return err
			}
			liked = true

			if post.UserID != ident.UserID {
				notification := models.Notification{
					UserID:   post.UserID,
					Type:     models.NotificationLikePost,
					ActorID:  ident.UserID,
					TargetID: post.ID,
					Content:  fmt.Sprintf("%s liked your post", ident.UserName),
				}
				return tx.Create(&notification).Error
			}
			return nil
		default:
			return err
		}
	})
	if err != nil {
		h.failPost(c, err)
		return
	}

	message := "Post unliked."
	if liked {
		message = "Post liked."
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// ToggleFollow flips the followed state for (post, caller). No counter and
// no notification, unlike ToggleLike.
func (h *PostHandler) ToggleFollow(c *gin.Context) {
	ident := middleware.Identity(c)
	postID, err := strconv.Atoi(c.Param("postId"))
	if err != nil {
		common.Error(c, http.StatusNotFound, "Post not found.")
		return
	}

	followed := false
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Where("id = ? AND is_deleted = ?", postID, false).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrPostNotFound
			}
			return err
		}

		var existing models.PostFollow
		err := tx.Where("post_id = ? AND user_id = ?", post.ID, ident.UserID).First(&existing).Error
		switch {
		case err == nil:
			return tx.Delete(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			followed = true
			return tx.Create(&models.PostFollow{PostID: post.ID, UserID: ident.UserID}).Error
		default:
			return err
		}
	})
	if err != nil {
		h.failPost(c, err)
		return
	}

	message := "Post unfollowed."
	if followed {
		message = "Post followed."
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// queryPage runs the filtered count plus the page query and builds the
// pagination block.
func (h *PostHandler) queryPage(query *gorm.DB, page, limit int) ([]gin.H, gin.H, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var posts []models.Post
	offset := (page - 1) * limit
	if err := query.Preload("User").Preload("Board").
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, nil, err
	}

	summaries := make([]gin.H, 0, len(posts))
	for i := range posts {
		summaries = append(summaries, postSummary(&posts[i]))
	}

	pagination := gin.H{
		"current":    page,
		"pageSize":   limit,
		"total":      int(math.Ceil(float64(total) / float64(limit))),
		"totalPosts": total,
	}
	return summaries, pagination, nil
}

func (h *PostHandler) failPost(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrBoardNotFound):
		common.Error(c, http.StatusNotFound, "Board not found.")
	case errors.Is(err, common.ErrPostNotFound):
		common.Error(c, http.StatusNotFound, "Post not found.")
	case errors.Is(err, common.ErrForbidden):
		common.Error(c, http.StatusForbidden, "No permission for this post.")
	default:
		common.Fail(c, err)
	}
}

// applySearch adds a term match over title and content. Postgres uses its
// native full-text machinery; other dialects approximate it with per-term
// LIKE, where every whitespace-separated term must match at least one of
// the two columns.
func applySearch(query *gorm.DB, q string) *gorm.DB {
	if query.Dialector.Name() == "postgres" {
		return query.Where(
			"to_tsvector('english', title || ' ' || content) @@ websearch_to_tsquery('english', ?)", q)
	}
	for _, term := range strings.Fields(q) {
		like := "%" + term + "%"
		query = query.Where("title LIKE ? OR content LIKE ?", like, like)
	}
	return query
}

func postSummary(post *models.Post) gin.H {
	return gin.H{
		"postId":       post.ID,
		"title":        post.Title,
		"content":      post.Content,
		"type":         post.Type,
		"visibility":   post.Visibility,
		"viewCount":    post.ViewCount,
		"likeCount":    post.LikeCount,
		"commentCount": post.CommentCount,
		"createdAt":    post.CreatedAt,
		"authorId":     post.User.ID,
		"authorName":   post.User.UserName,
		"authorAvatar": post.User.AvatarURL,
		"boardId":      post.Board.ID,
		"boardName":    post.Board.Name,
	}
}

func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
