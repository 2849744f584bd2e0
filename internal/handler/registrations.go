package handler

import (
	"fmt"
	"net/http"

	"csss-site/internal/elections"
	"csss-site/internal/middleware"
	"csss-site/internal/perms"
	"csss-site/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// RegistrationHandler serves candidacy registration routes. All write
// routes require authentication; non-admins may only act on their own
// registration, admins on anyone's.
type RegistrationHandler struct {
	Svc   *elections.Service
	Perms *perms.Evaluator
}

func NewRegistrationHandler(svc *elections.Service, ev *perms.Evaluator) *RegistrationHandler {
	return &RegistrationHandler{Svc: svc, Perms: ev}
}

func (h *RegistrationHandler) isElectionAdmin(c *gin.Context) bool {
	user := middleware.CurrentUser(c)
	if user == nil {
		return false
	}
	ok, err := h.Perms.IsElectionAdmin(user.ComputingID)
	if err != nil {
		return false
	}
	return ok
}

// targetID resolves whose registration the request operates on: the
// caller's own, unless an admin names someone else. Non-admins naming
// another user get a detail-free 403.
func (h *RegistrationHandler) targetID(c *gin.Context, requested string) (id string, admin, ok bool) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return "", false, false
	}
	admin = h.isElectionAdmin(c)
	if requested == "" || requested == user.ComputingID {
		return user.ComputingID, admin, true
	}
	if !admin {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "forbidden")
		return "", false, false
	}
	return requested, true, true
}

type registerReq struct {
	Position    string `json:"position" binding:"required"`
	ComputingID string `json:"computing_id"` // admin only: register someone else
}

type updateRegistrationReq struct {
	Speech      *string `json:"speech"`
	Position    *string `json:"position"`
	ComputingID string  `json:"computing_id"` // admin only
}

type registrationResp struct {
	ElectionSlug string `json:"election_slug"`
	Position     string `json:"position"`
	Speech       string `json:"speech,omitempty"`
	ComputingID  string `json:"computing_id"`
}

// Create registers a candidacy for the election's nomination phase.
func (h *RegistrationHandler) Create(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	id, _, ok := h.targetID(c, req.ComputingID)
	if !ok {
		return
	}

	reg, err := h.Svc.Register(id, c.Param("slug"), req.Position)
	if err != nil {
		electionError(c, err)
		return
	}
	util.Success(c, util.Response{"registration": registrationResp{
		ElectionSlug: reg.ElectionSlug,
		Position:     reg.Position,
		Speech:       reg.Speech,
		ComputingID:  reg.ComputingID,
	}})
}

// Update edits a registration's speech or position. Self-service only
// during nominations; admins at any phase.
func (h *RegistrationHandler) Update(c *gin.Context) {
	var req updateRegistrationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	id, admin, ok := h.targetID(c, req.ComputingID)
	if !ok {
		return
	}

	reg, err := h.Svc.UpdateRegistration(c.Param("slug"), id, c.Param("position"),
		elections.RegistrationUpdate{Speech: req.Speech, Position: req.Position}, admin)
	if err != nil {
		electionError(c, err)
		return
	}
	util.Success(c, util.Response{"registration": registrationResp{
		ElectionSlug: reg.ElectionSlug,
		Position:     reg.Position,
		Speech:       reg.Speech,
		ComputingID:  reg.ComputingID,
	}})
}

// Delete withdraws a candidacy.
func (h *RegistrationHandler) Delete(c *gin.Context) {
	id, admin, ok := h.targetID(c, c.Query("computing_id"))
	if !ok {
		return
	}

	if err := h.Svc.DeleteRegistration(c.Param("slug"), id, c.Param("position"), admin); err != nil {
		electionError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "registration deleted"})
}

// List returns an election's registrations, computing IDs redacted for
// everyone but election admins. Pure read, legal in any phase.
func (h *RegistrationHandler) List(c *gin.Context) {
	regs, err := h.Svc.ListForElection(c.Param("slug"))
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not list registrations")
		return
	}

	admin := h.isElectionAdmin(c)
	out := make([]candidateResp, 0, len(regs))
	for i := range regs {
		out = append(out, toCandidateResp(&regs[i], admin))
	}
	util.Success(c, util.Response{"registrations": out})
}

// Mine returns the caller's own registrations in the election.
func (h *RegistrationHandler) Mine(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	regs, err := h.Svc.ListForUser(user.ComputingID, c.Param("slug"))
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not list registrations")
		return
	}

	out := make([]registrationResp, 0, len(regs))
	for _, r := range regs {
		out = append(out, registrationResp{
			ElectionSlug: r.ElectionSlug,
			Position:     r.Position,
			Speech:       r.Speech,
			ComputingID:  r.ComputingID,
		})
	}
	util.Success(c, util.Response{"registrations": out})
}

// Export streams the election's registrations as an XLSX workbook.
// Route is election-admin gated, so computing IDs are included.
func (h *RegistrationHandler) Export(c *gin.Context) {
	slug := c.Param("slug")
	if _, err := h.Svc.Get(slug); err != nil {
		electionError(c, err)
		return
	}
	regs, err := h.Svc.ListForElection(slug)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not list registrations")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Registrations"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Computing ID", "Full Name", "Position", "Speech", "Registered At"}
	for i, hd := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, hd)
	}
	for row, r := range regs {
		values := []interface{}{
			r.ComputingID,
			r.Nominee.FullName,
			r.Position,
			r.Speech,
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s-registrations.xlsx", slug))
	c.Header("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not write workbook")
	}
}
