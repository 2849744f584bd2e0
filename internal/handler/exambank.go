package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"csss-site/internal/config"
	"csss-site/internal/middleware"
	"csss-site/internal/models"
	"csss-site/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ExamHandler serves exam bank metadata and token-gated downloads.
// Downloads go through a short-lived signed token instead of the
// session cookie so links work from embedded viewers.
type ExamHandler struct {
	DB  *gorm.DB
	Cfg config.ExamBankConfig
}

func NewExamHandler(db *gorm.DB, cfg config.ExamBankConfig) *ExamHandler {
	return &ExamHandler{DB: db, Cfg: cfg}
}

type examResp struct {
	ID     uint   `json:"id"`
	Course string `json:"course"`
	Year   int    `json:"year"`
	Term   string `json:"term"`
	Kind   string `json:"kind"`
}

// List returns exam metadata, optionally filtered by course.
func (h *ExamHandler) List(c *gin.Context) {
	q := h.DB.Order("course, year DESC")
	if course := strings.TrimSpace(c.Query("course")); course != "" {
		q = q.Where("course = ?", course)
	}

	var exams []models.Exam
	if err := q.Find(&exams).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not list exams")
		return
	}

	out := make([]examResp, 0, len(exams))
	for _, e := range exams {
		out = append(out, examResp{
			ID:     e.ID,
			Course: e.Course,
			Year:   e.Year,
			Term:   e.Term,
			Kind:   e.Kind,
		})
	}
	util.Success(c, util.Response{"exams": out})
}

// IssueToken mints a short-lived download token for one exam file.
func (h *ExamHandler) IssueToken(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid exam id")
		return
	}

	var exam models.Exam
	if err := h.DB.First(&exam, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "exam not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not load exam")
		}
		return
	}

	ttl := time.Duration(h.Cfg.TokenExpireMin) * time.Minute
	token, err := util.GenerateDownloadToken(h.Cfg.TokenSecret, user.ComputingID, exam.Filename, ttl)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not issue token")
		return
	}

	util.Success(c, util.Response{
		"token":      token,
		"expires_in": int(ttl / time.Second),
	})
}

// Download serves the file named in a valid token. The filename claim
// is sanitized to its base name so a token can never escape the exam
// bank directory.
func (h *ExamHandler) Download(c *gin.Context) {
	claims, err := util.ParseDownloadToken(h.Cfg.TokenSecret, c.Query("token"))
	if err != nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid or expired download token")
		return
	}

	name := filepath.Base(claims.Filename)
	c.FileAttachment(filepath.Join(h.Cfg.Dir, name), name)
}
