package handler

import (
	"errors"
	"net/http"
	"time"

	"csss-site/internal/elections"
	"csss-site/internal/middleware"
	"csss-site/internal/models"
	"csss-site/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BlogHandler serves society news posts: public reads, site-admin
// writes.
type BlogHandler struct {
	DB *gorm.DB
}

func NewBlogHandler(db *gorm.DB) *BlogHandler {
	return &BlogHandler{DB: db}
}

type blogPostReq struct {
	Title string `json:"title" binding:"required,max=128"`
	HTML  string `json:"html" binding:"required"`
}

type blogPostResp struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	HTML      string    `json:"html,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toBlogPostResp(p *models.BlogPost, withBody bool) blogPostResp {
	resp := blogPostResp{
		Slug:      p.Slug,
		Title:     p.Title,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if withBody {
		resp.HTML = p.HTML
	}
	return resp
}

// List returns all posts newest first, without bodies.
func (h *BlogHandler) List(c *gin.Context) {
	var posts []models.BlogPost
	if err := h.DB.Order("created_at DESC").Find(&posts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not list posts")
		return
	}

	out := make([]blogPostResp, 0, len(posts))
	for i := range posts {
		out = append(out, toBlogPostResp(&posts[i], false))
	}
	util.Success(c, util.Response{"posts": out})
}

// Get returns one post with its body.
func (h *BlogHandler) Get(c *gin.Context) {
	var post models.BlogPost
	if err := h.DB.First(&post, "slug = ?", c.Param("slug")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "post not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not load post")
		}
		return
	}
	util.Success(c, util.Response{"post": toBlogPostResp(&post, true)})
}

// Create publishes a new post. The slug derives from the title the
// same way election slugs derive from names.
func (h *BlogHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req blogPostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	slug := elections.Slugify(req.Title)
	if slug == "" || len(slug) > elections.MaxSlugLen {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "title produces an unusable slug")
		return
	}

	post := models.BlogPost{
		Slug:      slug,
		Title:     req.Title,
		HTML:      req.HTML,
		CreatedBy: user.ComputingID,
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.BlogPost{}).
			Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return gorm.ErrDuplicatedKey
		}
		return tx.Create(&post).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Error(c, http.StatusConflict, util.CodeConflict, "a post with this title already exists")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not create post")
		}
		return
	}
	util.Success(c, util.Response{"post": toBlogPostResp(&post, true)})
}

// Update edits a post's title and body; the slug stays fixed.
func (h *BlogHandler) Update(c *gin.Context) {
	var req blogPostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	var post models.BlogPost
	if err := h.DB.First(&post, "slug = ?", c.Param("slug")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "post not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not load post")
		}
		return
	}

	post.Title = req.Title
	post.HTML = req.HTML
	if err := h.DB.Save(&post).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not update post")
		return
	}
	util.Success(c, util.Response{"post": toBlogPostResp(&post, true)})
}

// Delete removes a post.
func (h *BlogHandler) Delete(c *gin.Context) {
	res := h.DB.Where("slug = ?", c.Param("slug")).Delete(&models.BlogPost{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not delete post")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "post not found")
		return
	}
	util.Success(c, util.Response{"message": "post deleted"})
}
