package handler

import (
	"errors"
	"net/http"
	"time"

	"csss-site/internal/elections"
	"csss-site/internal/middleware"
	"csss-site/internal/models"
	"csss-site/internal/perms"
	"csss-site/internal/util"

	"github.com/gin-gonic/gin"
)

// ElectionHandler serves election CRUD and phase-gated detail views.
type ElectionHandler struct {
	Svc   *elections.Service
	Perms *perms.Evaluator
}

func NewElectionHandler(svc *elections.Service, ev *perms.Evaluator) *ElectionHandler {
	return &ElectionHandler{Svc: svc, Perms: ev}
}

// electionError translates service sentinels into the error envelope.
func electionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, elections.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
	case errors.Is(err, elections.ErrSlugTaken),
		errors.Is(err, elections.ErrAlreadyRegistered):
		util.Error(c, http.StatusConflict, util.CodeConflict, err.Error())
	case errors.Is(err, elections.ErrNotNominationPeriod):
		util.Error(c, http.StatusUnprocessableEntity, util.CodeBadPhase, err.Error())
	case errors.Is(err, elections.ErrReservedName),
		errors.Is(err, elections.ErrBadDates),
		errors.Is(err, elections.ErrSlugTooLong),
		errors.Is(err, elections.ErrEmptySlug),
		errors.Is(err, elections.ErrSlugImmutable),
		errors.Is(err, elections.ErrUnknownPosition),
		errors.Is(err, elections.ErrNoPositions),
		errors.Is(err, elections.ErrUnknownType),
		errors.Is(err, elections.ErrPositionNotAvailable),
		errors.Is(err, elections.ErrNoNomineeInfo):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
	}
}

// ---------- request/response shapes ----------

type electionReq struct {
	Name            string   `json:"name" binding:"required,max=128"`
	Type            string   `json:"type" binding:"required"`
	NominationStart string   `json:"nomination_start" binding:"required"`
	VotingStart     string   `json:"voting_start" binding:"required"`
	VotingEnd       string   `json:"voting_end" binding:"required"`
	Positions       []string `json:"available_positions"`
	SurveyLink      string   `json:"survey_link" binding:"max=255"`
}

type electionResp struct {
	Slug            string    `json:"slug"`
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	NominationStart time.Time `json:"nomination_start"`
	VotingStart     time.Time `json:"voting_start"`
	VotingEnd       time.Time `json:"voting_end"`
	Phase           string    `json:"phase"`
	SurveyLink      string    `json:"survey_link,omitempty"`

	// admin-only fields
	AvailablePositions []string `json:"available_positions,omitempty"`
}

type candidateResp struct {
	Position string `json:"position"`
	FullName string `json:"full_name"`
	Speech   string `json:"speech,omitempty"`

	// ComputingID is only ever serialized for election admins.
	ComputingID string `json:"computing_id,omitempty"`
}

func (h *ElectionHandler) toElectionResp(e *models.Election, admin bool) electionResp {
	resp := electionResp{
		Slug:            e.Slug,
		Name:            e.Name,
		Type:            e.Type,
		NominationStart: e.NominationStart,
		VotingStart:     e.VotingStart,
		VotingEnd:       e.VotingEnd,
		Phase:           elections.PhaseAt(e, h.Svc.Now()).String(),
		SurveyLink:      e.SurveyLink,
	}
	if admin {
		resp.AvailablePositions = e.AvailablePositions
	}
	return resp
}

func toCandidateResp(r *models.Registration, admin bool) candidateResp {
	resp := candidateResp{
		Position: r.Position,
		FullName: r.Nominee.FullName,
		Speech:   r.Speech,
	}
	if admin {
		resp.ComputingID = r.ComputingID
	}
	return resp
}

// isElectionAdmin resolves the caller's election-admin tier, failing
// closed on anonymous callers and on evaluator errors.
func (h *ElectionHandler) isElectionAdmin(c *gin.Context) bool {
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

func (r electionReq) toInput() (elections.ElectionInput, error) {
	nomStart, err := time.Parse(time.RFC3339, r.NominationStart)
	if err != nil {
		return elections.ElectionInput{}, err
	}
	voteStart, err := time.Parse(time.RFC3339, r.VotingStart)
	if err != nil {
		return elections.ElectionInput{}, err
	}
	voteEnd, err := time.Parse(time.RFC3339, r.VotingEnd)
	if err != nil {
		return elections.ElectionInput{}, err
	}
	return elections.ElectionInput{
		Name:            r.Name,
		Type:            r.Type,
		NominationStart: nomStart,
		VotingStart:     voteStart,
		VotingEnd:       voteEnd,
		Positions:       r.Positions,
		SurveyLink:      r.SurveyLink,
	}, nil
}

// ---------- handlers ----------

// List is public; election admins additionally see the configured
// position sets.
func (h *ElectionHandler) List(c *gin.Context) {
	items, err := h.Svc.List()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not list elections")
		return
	}

	admin := h.isElectionAdmin(c)
	out := make([]electionResp, 0, len(items))
	for i := range items {
		out = append(out, h.toElectionResp(&items[i], admin))
	}
	util.Success(c, util.Response{"elections": out})
}

// Get returns election detail. Before voting begins, candidates are
// visible only to election admins; once voting starts the candidate
// list is public, but raw computing IDs stay admin-only in any phase.
func (h *ElectionHandler) Get(c *gin.Context) {
	e, err := h.Svc.Get(c.Param("slug"))
	if err != nil {
		electionError(c, err)
		return
	}

	admin := h.isElectionAdmin(c)
	resp := util.Response{"election": h.toElectionResp(e, admin)}

	phase := elections.PhaseAt(e, h.Svc.Now())
	if admin || phase == elections.Voting || phase == elections.AfterVoting {
		regs, err := h.Svc.ListForElection(e.Slug)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not list candidates")
			return
		}
		candidates := make([]candidateResp, 0, len(regs))
		for i := range regs {
			candidates = append(candidates, toCandidateResp(&regs[i], admin))
		}
		resp["candidates"] = candidates
	}

	util.Success(c, resp)
}

// Create makes a new election. Route is election-admin gated.
func (h *ElectionHandler) Create(c *gin.Context) {
	var req electionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "timestamps must be RFC 3339")
		return
	}

	e, err := h.Svc.Create(in)
	if err != nil {
		electionError(c, err)
		return
	}
	util.Success(c, util.Response{"election": h.toElectionResp(e, true)})
}

// Update rewrites an election in place; the slug cannot change.
func (h *ElectionHandler) Update(c *gin.Context) {
	var req electionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "timestamps must be RFC 3339")
		return
	}

	e, err := h.Svc.Update(c.Param("slug"), in)
	if err != nil {
		electionError(c, err)
		return
	}
	util.Success(c, util.Response{"election": h.toElectionResp(e, true)})
}

// Delete removes an election and all of its registrations.
func (h *ElectionHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Param("slug")); err != nil {
		electionError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "election deleted"})
}
