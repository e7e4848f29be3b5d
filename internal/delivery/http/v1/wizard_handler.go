package v1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-profile-builder/internal/delivery/http/response"
	"go-profile-builder/internal/domain"
)

type WizardHandler struct {
	wizardUC domain.WizardUsecase
}

func NewWizardHandler(r *gin.RouterGroup, wizardUC domain.WizardUsecase) {
	handler := &WizardHandler{wizardUC: wizardUC}

	wizard := r.Group("/wizard")
	{
		wizard.GET("", handler.GetState)
		wizard.POST("/next", handler.Next)
		wizard.POST("/prev", handler.Prev)
		wizard.POST("/goto", handler.GoTo)
		wizard.PUT("/sections/:name", handler.UpdateSection)
		wizard.PUT("/profile", handler.ReplaceProfile)
		wizard.POST("/skills", handler.AddSkill)
		wizard.DELETE("/skills/:id", handler.RemoveSkill)
		wizard.GET("/score", handler.GetScore)
	}
}

// GetState godoc
// @Summary      Get wizard state
// @Description  Return the user's wizard state, hydrating it from the stored profile on first call
// @Tags         wizard
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.WizardState}
// @Failure      401  {object}  response.Response
// @Router       /wizard [get]
// @Security     BearerAuth
func (h *WizardHandler) GetState(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	state, err := h.wizardUC.Start(c, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Wizard state retrieved", state)
}

// Next godoc
// @Summary      Advance the wizard
// @Description  Apply the request body as a patch to the current section, validate it, persist it and move to the next step. On the final step this submits the profile.
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        request  body      object  false  "Section payload for the current step"
// @Success      200      {object}  response.Response{data=domain.NextResult}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /wizard/next [post]
// @Security     BearerAuth
func (h *WizardHandler) Next(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	patch, err := readPatch(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	result, err := h.wizardUC.Next(c, userID, patch)
	if err != nil {
		c.Error(err)
		return
	}

	message := "Step completed"
	if result.Submitted {
		message = "Profile submitted"
	}

	if result.SaveWarning != "" {
		response.SuccessWithWarning(c, http.StatusOK, message, result, result.SaveWarning)
		return
	}
	response.Success(c, http.StatusOK, message, result)
}

// Prev godoc
// @Summary      Go back one step
// @Description  Move to the previous step without validating or persisting anything
// @Tags         wizard
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.WizardState}
// @Failure      401  {object}  response.Response
// @Router       /wizard/prev [post]
// @Security     BearerAuth
func (h *WizardHandler) Prev(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	state, err := h.wizardUC.Prev(c, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Moved to previous step", state)
}

type gotoRequest struct {
	Step int `json:"step" binding:"min=0"`
}

// GoTo godoc
// @Summary      Jump to a step
// @Description  Jump to a visited or completed step. Blocked jumps leave the state unchanged.
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        request  body      gotoRequest  true  "Target step index"
// @Success      200      {object}  response.Response{data=domain.WizardState}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /wizard/goto [post]
// @Security     BearerAuth
func (h *WizardHandler) GoTo(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req gotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}

	state, err := h.wizardUC.GoTo(c, userID, req.Step)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Wizard state retrieved", state)
}

// UpdateSection godoc
// @Summary      Update a profile section
// @Description  Apply a patch to one named section without advancing the wizard
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        name     path      string  true  "Section name"
// @Param        request  body      object  true  "Section payload"
// @Success      200      {object}  response.Response{data=domain.WizardState}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /wizard/sections/{name} [put]
// @Security     BearerAuth
func (h *WizardHandler) UpdateSection(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	name := domain.SectionName(c.Param("name"))

	patch, err := readPatch(c)
	if err != nil || len(patch) == 0 {
		response.Error(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	state, err := h.wizardUC.UpdateSection(c, userID, name, patch)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Section updated", state)
}

// ReplaceProfile godoc
// @Summary      Replace the whole profile
// @Description  Swap the entire profile aggregate, for example after importing saved data
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        request  body      domain.ProfileData  true  "Full profile payload"
// @Success      200      {object}  response.Response{data=domain.WizardState}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /wizard/profile [put]
// @Security     BearerAuth
func (h *WizardHandler) ReplaceProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var profile domain.ProfileData
	if err := c.ShouldBindJSON(&profile); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}

	state, err := h.wizardUC.ReplaceAll(c, userID, &profile)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile replaced", state)
}

// AddSkill godoc
// @Summary      Add a skill
// @Description  Append a skill to the profile. Duplicate names are allowed.
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        request  body      domain.Skill  true  "Skill payload"
// @Success      200      {object}  response.Response{data=domain.WizardState}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /wizard/skills [post]
// @Security     BearerAuth
func (h *WizardHandler) AddSkill(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var skill domain.Skill
	if err := c.ShouldBindJSON(&skill); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}

	state, err := h.wizardUC.AddSkill(c, userID, skill)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Skill added", state)
}

// RemoveSkill godoc
// @Summary      Remove a skill
// @Description  Remove a skill by its generated ID
// @Tags         wizard
// @Produce      json
// @Param        id   path      string  true  "Skill ID"
// @Success      200  {object}  response.Response{data=domain.WizardState}
// @Failure      401  {object}  response.Response
// @Router       /wizard/skills/{id} [delete]
// @Security     BearerAuth
func (h *WizardHandler) RemoveSkill(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	skillID := c.Param("id")

	state, err := h.wizardUC.RemoveSkill(c, userID, skillID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Skill removed", state)
}

// GetScore godoc
// @Summary      Get profile completion score
// @Description  Proxy the upstream completion score and next milestone
// @Tags         wizard
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.ScoreSummary}
// @Failure      401  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /wizard/score [get]
// @Security     BearerAuth
func (h *WizardHandler) GetScore(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	score, err := h.wizardUC.Score(c, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Completion score retrieved", score)
}

// readPatch reads the raw body as a section patch. An empty body is a valid
// no-payload patch.
func readPatch(c *gin.Context) (domain.SectionPatch, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}
	if !json.Valid(body) {
		return nil, errInvalidJSON
	}
	return domain.SectionPatch(body), nil
}

var errInvalidJSON = errors.New("invalid JSON body")
