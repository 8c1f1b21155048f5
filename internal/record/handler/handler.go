package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/virginearth/survey-backend/internal/record"
	"github.com/virginearth/survey-backend/internal/record/service"
)

const invalidDataMsg = "Invalid data format"

// RegisterRecordRoutes mounts the interview and survey endpoints.
func RegisterRecordRoutes(r gin.IRouter, svc *service.Service) {
	api := r.Group("/api")
	api.POST("/save_interview", saveInterview(svc))
	api.POST("/save_survey", saveSurvey(svc))
	api.GET("/get_surveys", getSurveys(svc))
}

// writeError maps service errors onto status codes: invalid input is a client
// error, everything else a server error carrying the underlying message.
func writeError(c *gin.Context, err error) {
	if errors.Is(err, record.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidDataMsg})
		return
	}
	msg := err.Error()
	var se *record.StorageError
	if errors.As(err, &se) {
		msg = se.Err.Error()
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func saveInterview(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload record.Record
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalidDataMsg})
			return
		}
		if err := svc.SaveInterview(c.Request.Context(), payload); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Interview text saved successfully"})
	}
}

func saveSurvey(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Type    *string       `json:"type"`
			Payload record.Record `json:"payload"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Type == nil || req.Payload == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalidDataMsg})
			return
		}
		id, err := svc.SaveSurvey(c.Request.Context(), *req.Type, req.Payload)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": fmt.Sprintf("Survey (%s) saved successfully", *req.Type),
			"id":      id,
		})
	}
}

func getSurveys(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		l, err := svc.ListSurveys(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		body := gin.H{"success": true, "customer": l.Customer, "employee": l.Employee}
		if l.Interviews != nil {
			body["interviews"] = l.Interviews
		}
		c.JSON(http.StatusOK, body)
	}
}
