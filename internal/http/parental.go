package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storyhatch/internal/database/parental"
	"storyhatch/internal/entities"
)

// ParentalStore defines database operations for parental controls.
type ParentalStore interface {
	GetSettings(userID string) (*entities.ParentSettings, error)
	UpdateSettings(userID string, patch parental.SettingsPatch) (*entities.ParentSettings, error)
}

// UpdateParentSettingsRequest carries a partial settings update.
// Omitted fields keep their previously saved values.
type UpdateParentSettingsRequest struct {
	UserID string `json:"userId"`
	parental.SettingsPatch
}

type ParentalController struct {
	store ParentalStore
}

func NewParentalController(store ParentalStore) *ParentalController {
	return &ParentalController{store: store}
}

// GetSettings returns the user's parental controls, falling back to
// defaults when none were ever saved.
// GET /api/parent-settings?userId=
func (pc *ParentalController) GetSettings(c *gin.Context) {
	userID, ok := requireUserIDQuery(c)
	if !ok {
		return
	}

	settings, err := pc.store.GetSettings(userID)
	if err != nil {
		respondInternalError(c, err, "get parent settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings merges the submitted fields onto the saved settings
// and returns the result.
// PUT /api/parent-settings
func (pc *ParentalController) UpdateSettings(c *gin.Context) {
	var req UpdateParentSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.UserID == "" {
		respondBadRequest(c, "userId is required")
		return
	}

	settings, err := pc.store.UpdateSettings(req.UserID, req.SettingsPatch)
	if err != nil {
		respondInternalError(c, err, "update parent settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}
