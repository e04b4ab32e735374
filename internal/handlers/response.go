package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/middleware"
	"github.com/sirupsen/logrus"
)

// respondError writes {message, success:false} with the status matching err.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		middleware.Logger(c, log).WithError(err).Error("handler failed")
	}
	c.JSON(status, gin.H{"message": apperr.Message(err), "success": false})
}

// bindFailed answers a request whose body did not bind.
func bindFailed(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "Something is missing", "fields": fields, "success": false})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format: " + err.Error(), "success": false})
}

// pathID parses the :name parameter; on failure it has already responded.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id.", "success": false})
		return 0, false
	}
	return uint(id), true
}

// formFile returns the uploaded file under field, or nil when none was sent.
func formFile(c *gin.Context, field string) *multipart.FileHeader {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return fh
}
