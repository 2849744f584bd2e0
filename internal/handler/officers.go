package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"csss-site/internal/middleware"
	"csss-site/internal/models"
	"csss-site/internal/perms"
	"csss-site/internal/positions"
	"csss-site/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// OfficerHandler serves officer term record-keeping: a public roster
// of current officers and site-admin CRUD over terms.
type OfficerHandler struct {
	DB    *gorm.DB
	Perms *perms.Evaluator
	Log   zerolog.Logger
}

func NewOfficerHandler(db *gorm.DB, ev *perms.Evaluator, log zerolog.Logger) *OfficerHandler {
	return &OfficerHandler{DB: db, Perms: ev, Log: log}
}

type officerTermReq struct {
	ComputingID string `json:"computing_id" binding:"required,max=16"`
	Position    string `json:"position" binding:"required"`
	StartDate   string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate     string `json:"end_date"`                      // YYYY-MM-DD, empty = open-ended

	Nickname        string `json:"nickname" binding:"max=64"`
	FavouriteCourse string `json:"favourite_course" binding:"max=64"`
	Biography       string `json:"biography"`
	PhotoURL        string `json:"photo_url" binding:"omitempty,url,max=255"`
}

type officerTermResp struct {
	ID            uint   `json:"id"`
	ComputingID   string `json:"computing_id,omitempty"` // admin view only
	Position      string `json:"position"`
	PositionTitle string `json:"position_title"`
	PositionEmail string `json:"position_email"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date,omitempty"`

	Nickname        string `json:"nickname,omitempty"`
	FavouriteCourse string `json:"favourite_course,omitempty"`
	Biography       string `json:"biography,omitempty"`
	PhotoURL        string `json:"photo_url,omitempty"`
}

func toOfficerTermResp(t *models.OfficerTerm, admin bool) officerTermResp {
	resp := officerTermResp{
		ID:              t.ID,
		Position:        t.Position,
		PositionTitle:   positions.Title(positions.Position(t.Position)),
		PositionEmail:   positions.Email(positions.Position(t.Position)),
		StartDate:       util.FormatDate(t.StartDate),
		Nickname:        t.Nickname,
		FavouriteCourse: t.FavouriteCourse,
		Biography:       t.Biography,
		PhotoURL:        t.PhotoURL,
	}
	if t.EndDate != nil {
		resp.EndDate = util.FormatDate(*t.EndDate)
	}
	if admin {
		resp.ComputingID = t.ComputingID
	}
	return resp
}

// checkConcurrency logs (never rejects) when a position ends up with
// more simultaneous active terms than its configured maximum.
func (h *OfficerHandler) checkConcurrency(position string) {
	now := time.Now()
	var count int64
	err := h.DB.Model(&models.OfficerTerm{}).
		Where("position = ?", position).
		Where("start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Count(&count).Error
	if err != nil {
		h.Log.Warn().Err(err).Str("position", position).Msg("concurrency check")
		return
	}
	if max := positions.MaxConcurrent(positions.Position(position)); count > int64(max) {
		h.Log.Warn().
			Str("position", position).
			Int64("active", count).
			Int("max", max).
			Msg("position held by more people than allowed")
	}
}

func (r officerTermReq) toModel() (models.OfficerTerm, error) {
	if !positions.IsValid(r.Position) {
		return models.OfficerTerm{}, errors.New("unrecognized position")
	}
	start, err := util.ParseDate(r.StartDate)
	if err != nil {
		return models.OfficerTerm{}, err
	}
	term := models.OfficerTerm{
		ComputingID:     r.ComputingID,
		Position:        r.Position,
		StartDate:       start,
		Nickname:        r.Nickname,
		FavouriteCourse: r.FavouriteCourse,
		Biography:       r.Biography,
		PhotoURL:        r.PhotoURL,
	}
	if r.EndDate != "" {
		end, err := util.ParseDate(r.EndDate)
		if err != nil {
			return models.OfficerTerm{}, err
		}
		if end.Before(start) {
			return models.OfficerTerm{}, errors.New("end_date before start_date")
		}
		term.EndDate = &end
	}
	return term, nil
}

// List returns the current officer roster. Public: computing IDs are
// included only for site admins.
func (h *OfficerHandler) List(c *gin.Context) {
	now := time.Now()
	var terms []models.OfficerTerm
	err := h.DB.
		Where("start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Order("position").
		Find(&terms).Error
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not list officers")
		return
	}

	admin := false
	if user := middleware.CurrentUser(c); user != nil {
		admin, _ = h.Perms.IsSiteAdmin(user.ComputingID)
	}
	out := make([]officerTermResp, 0, len(terms))
	for i := range terms {
		out = append(out, toOfficerTermResp(&terms[i], admin))
	}
	util.Success(c, util.Response{"officers": out})
}

// Create records a new officer term. Site-admin gated at the route.
func (h *OfficerHandler) Create(c *gin.Context) {
	var req officerTermReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	term, err := req.toModel()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	// terms only attach to known users
	var user models.User
	if err := h.DB.First(&user, "computing_id = ?", term.ComputingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "user has never logged in")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not look up user")
		}
		return
	}

	if err := h.DB.Create(&term).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not create term")
		return
	}
	h.checkConcurrency(term.Position)

	util.Success(c, util.Response{"term": toOfficerTermResp(&term, true)})
}

// Update rewrites an existing term.
func (h *OfficerHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid term id")
		return
	}

	var req officerTermReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	updated, err := req.toModel()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	var term models.OfficerTerm
	if err := h.DB.First(&term, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "term not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not load term")
		}
		return
	}

	updated.ID = term.ID
	updated.CreatedAt = term.CreatedAt
	if err := h.DB.Save(&updated).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not update term")
		return
	}
	h.checkConcurrency(updated.Position)

	util.Success(c, util.Response{"term": toOfficerTermResp(&updated, true)})
}

// Delete removes a term record.
func (h *OfficerHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid term id")
		return
	}

	res := h.DB.Delete(&models.OfficerTerm{}, uint(id))
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not delete term")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "term not found")
		return
	}
	util.Success(c, util.Response{"message": "term deleted"})
}

// Export streams the full officer history as an XLSX workbook.
func (h *OfficerHandler) Export(c *gin.Context) {
	var terms []models.OfficerTerm
	if err := h.DB.Order("start_date DESC").Find(&terms).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not list officers")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Officers"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Computing ID", "Position", "Start Date", "End Date", "Nickname"}
	for i, hd := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, hd)
	}
	for row, t := range terms {
		end := ""
		if t.EndDate != nil {
			end = util.FormatDate(*t.EndDate)
		}
		values := []interface{}{
			t.ComputingID,
			positions.Title(positions.Position(t.Position)),
			util.FormatDate(t.StartDate),
			end,
			t.Nickname,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Disposition", "attachment; filename=officers.xlsx")
	c.Header("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not write workbook")
	}
}
