package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitboard/backend/internal/common"
	"github.com/fitboard/backend/internal/models"
)

type BoardHandler struct {
	db *gorm.DB
}

func NewBoardHandler(db *gorm.DB) *BoardHandler {
	return &BoardHandler{db: db}
}

// GetBoards lists active boards. No pagination, no filtering.
func (h *BoardHandler) GetBoards(c *gin.Context) {
	var boards []models.Board
	if err := h.db.Where("is_active = ?", true).Find(&boards).Error; err != nil {
		common.Fail(c, err)
		return
	}

	views := make([]gin.H, 0, len(boards))
	for _, board := range boards {
		views = append(views, gin.H{
			"boardId":   board.ID,
			"boardName": board.Name,
		})
	}
	c.JSON(http.StatusOK, views)
}
