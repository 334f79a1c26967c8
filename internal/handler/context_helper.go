package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sternfield-timetable/internal/service"
)

// teacherParam reads the :name path segment in its canonical spelling.
func teacherParam(c *gin.Context) string {
	return service.NormalizeTeacherName(c.Param("name"))
}
