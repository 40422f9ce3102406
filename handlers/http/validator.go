package httpHandler

import (
	"net/http"
	"strconv"

	"chat-api/usecases"

	"github.com/gin-gonic/gin"
)

type ValidatorHandler struct {
	useCase *usecases.ValidatorUseCase
}

func NewValidatorHandler(useCase *usecases.ValidatorUseCase) *ValidatorHandler {
	return &ValidatorHandler{useCase: useCase}
}

// GetAllValidators handles GET /api/v1/validators/
func (h *ValidatorHandler) GetAllValidators(c *gin.Context) {
	validators, err := h.useCase.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, validators)
}

// GetValidator handles GET /api/v1/validators/:id
func (h *ValidatorHandler) GetValidator(c *gin.Context) {
	validator, err := h.useCase.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, validator)
}

// GetValidatorByUID handles GET /api/v1/validators/uid/:uid
func (h *ValidatorHandler) GetValidatorByUID(c *gin.Context) {
	uid, err := strconv.Atoi(c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "uid must be an integer"})
		return
	}

	validator, err := h.useCase.GetByUID(uid)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, validator)
}
