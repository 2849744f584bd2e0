package handler

import (
	"errors"
	"net/http"

	"csss-site/internal/middleware"
	"csss-site/internal/models"
	"csss-site/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NomineeHandler lets an authenticated user manage their own nominee
// info record, the prerequisite for registering in any election.
type NomineeHandler struct {
	DB *gorm.DB
}

func NewNomineeHandler(db *gorm.DB) *NomineeHandler {
	return &NomineeHandler{DB: db}
}

type nomineeInfoReq struct {
	FullName string `json:"full_name" binding:"required,max=128"`
	Email    string `json:"email" binding:"omitempty,email,max=128"`
	Discord  string `json:"discord" binding:"max=64"`
}

type nomineeInfoResp struct {
	ComputingID string `json:"computing_id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email,omitempty"`
	Discord     string `json:"discord,omitempty"`
}

// Get returns the caller's nominee info, 404 if never filled in.
func (h *NomineeHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var info models.NomineeInfo
	if err := h.DB.First(&info, "computing_id = ?", user.ComputingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "nominee info not filled in yet")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not load nominee info")
		}
		return
	}

	util.Success(c, util.Response{"nominee_info": nomineeInfoResp{
		ComputingID: info.ComputingID,
		FullName:    info.FullName,
		Email:       info.Email,
		Discord:     info.Discord,
	}})
}

// Put creates or replaces the caller's nominee info.
func (h *NomineeHandler) Put(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req nomineeInfoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	info := models.NomineeInfo{
		ComputingID: user.ComputingID,
		FullName:    req.FullName,
		Email:       req.Email,
		Discord:     req.Discord,
	}
	if err := h.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&info).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not save nominee info")
		return
	}

	util.Success(c, util.Response{"nominee_info": nomineeInfoResp{
		ComputingID: info.ComputingID,
		FullName:    info.FullName,
		Email:       info.Email,
		Discord:     info.Discord,
	}})
}
