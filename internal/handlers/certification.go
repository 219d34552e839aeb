package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/thesurvey/api/internal/domain"
	"github.com/thesurvey/api/internal/services"
)

type CertificationHandler struct {
	certService services.CertificationService
}

func NewCertificationHandler(certService services.CertificationService) *CertificationHandler {
	return &CertificationHandler{certService: certService}
}

func (ch *CertificationHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	certs, err := ch.certService.List(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"certifications": certs})
}

func (ch *CertificationHandler) Grant(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		CertificationTypes []domain.CertificationType `json:"certification_types"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, err)
		return
	}
	certs, err := ch.certService.Grant(c.Request.Context(), userID, req.CertificationTypes)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"certifications": certs})
}
