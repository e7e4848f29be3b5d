package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-profile-builder/internal/delivery/http/middleware"
	"go-profile-builder/internal/delivery/http/response"
	"go-profile-builder/internal/domain"
)

type ResumeHandler struct {
	resumeUC domain.ResumeUsecase
	maxSize  int64
}

func NewResumeHandler(r *gin.RouterGroup, resumeUC domain.ResumeUsecase, maxSize int64, uploadLimit int) {
	handler := &ResumeHandler{resumeUC: resumeUC, maxSize: maxSize}

	r.POST("/resume/parse", middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig(uploadLimit)), handler.Parse)
}

type resumeParseResponse struct {
	State  *domain.WizardState `json:"state"`
	Resume *domain.ResumeData  `json:"resume"`
}

// Parse godoc
// @Summary      Parse an uploaded resume
// @Description  Validate the uploaded file, forward it to the upstream parser and merge the extracted fields into empty wizard sections. User-entered values are never overwritten.
// @Tags         resume
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Resume file (pdf, doc, docx, txt, jpg, png)"
// @Success      200   {object}  response.Response{data=resumeParseResponse}
// @Failure      400   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Failure      413   {object}  response.Response
// @Failure      503   {object}  response.Response
// @Router       /resume/parse [post]
// @Security     BearerAuth
func (h *ResumeHandler) Parse(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Resume file is required", nil)
		return
	}

	if h.maxSize > 0 && file.Size > h.maxSize {
		response.Error(c, http.StatusRequestEntityTooLarge, "Resume file exceeds the maximum allowed size", nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to open file", nil)
		return
	}
	defer src.Close()

	fileBytes, err := io.ReadAll(src)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to read file", nil)
		return
	}

	// Detect content type from file bytes (more reliable than header)
	contentType := http.DetectContentType(fileBytes)

	state, resume, err := h.resumeUC.ParseAndApply(c, userID, file.Filename, fileBytes, contentType)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Resume parsed", resumeParseResponse{
		State:  state,
		Resume: resume,
	})
}
