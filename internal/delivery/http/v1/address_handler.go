package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-profile-builder/internal/delivery/http/middleware"
	"go-profile-builder/internal/delivery/http/response"
	"go-profile-builder/internal/domain"
	"go-profile-builder/pkg/apperror"
)

type AddressHandler struct {
	addressUC domain.AddressUsecase
}

func NewAddressHandler(r *gin.RouterGroup, addressUC domain.AddressUsecase, searchLimit int) {
	handler := &AddressHandler{addressUC: addressUC}

	address := r.Group("/address")
	{
		address.GET("/search", middleware.RateLimitMiddleware(middleware.SearchRateLimitConfig(searchLimit)), handler.Search)
		address.POST("/select", handler.Select)
	}
}

// searchResponse wraps candidates with degradation hints for the client.
// ManualEntry tells the UI to offer the manual address form because the
// candidate pool is unreachable. Superseded marks a response the client
// should discard because a newer query is already in flight.
type searchResponse struct {
	Query       string                    `json:"query"`
	Candidates  []domain.AddressCandidate `json:"candidates"`
	Sequence    uint64                    `json:"sequence,omitempty"`
	ManualEntry bool                      `json:"manual_entry,omitempty"`
	Superseded  bool                      `json:"superseded,omitempty"`
}

// Search godoc
// @Summary      Address autocomplete
// @Description  Parse the query, filter the candidate pool by detected suburb, state and postcode context and return ranked suggestions. Pool outages degrade to an empty list with a manual entry hint instead of an error.
// @Tags         address
// @Produce      json
// @Param        q      query     string  true   "Address query"
// @Param        limit  query     int     false  "Maximum suggestions"
// @Success      200    {object}  response.Response{data=searchResponse}
// @Failure      401    {object}  response.Response
// @Router       /address/search [get]
// @Security     BearerAuth
func (h *AddressHandler) Search(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	query := c.Query("q")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	result, err := h.addressUC.Search(c, userID, query, limit)
	if err != nil {
		if errors.Is(err, domain.ErrSuperseded) {
			response.Success(c, http.StatusOK, "Search superseded by a newer query", searchResponse{
				Query:      query,
				Candidates: []domain.AddressCandidate{},
				Superseded: true,
			})
			return
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusServiceUnavailable {
			// Pool outage. The client falls back to manual address entry
			// rather than showing an error.
			response.SuccessWithWarning(c, http.StatusOK, "Address search unavailable", searchResponse{
				Query:       query,
				Candidates:  []domain.AddressCandidate{},
				ManualEntry: true,
			}, "Address lookup is temporarily unavailable. You can enter your address manually.")
			return
		}

		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Address suggestions", searchResponse{
		Query:      result.Query,
		Candidates: result.Candidates,
		Sequence:   result.Sequence,
	})
}

type selectRequest struct {
	CandidateID string `json:"candidate_id" binding:"required"`
}

// Select godoc
// @Summary      Select an address candidate
// @Description  Mark the chosen candidate as the validated address and resolve its coordinates. Geocoding failure is non-fatal.
// @Tags         address
// @Accept       json
// @Produce      json
// @Param        request  body      selectRequest  true  "Chosen candidate"
// @Success      200      {object}  response.Response{data=domain.Address}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /address/select [post]
// @Security     BearerAuth
func (h *AddressHandler) Select(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}

	address, err := h.addressUC.SelectCandidate(c, userID, req.CandidateID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Address selected", address)
}
