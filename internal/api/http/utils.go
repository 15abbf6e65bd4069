package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/webcache/internal/shared/types"
)

func processID(c *gin.Context) (types.ProcessID, bool) {
	pid, err := types.ParseProcessID(c.Param("pid"))
	if err != nil {
		badRequest(c, "Invalid process id: "+c.Param("pid"))
		return 0, false
	}
	return pid, true
}

func parseOccasion(s string) (types.ClearOccasion, error) {
	switch s {
	case "", "instant":
		return types.ClearInstantly, nil
	case "navigation":
		return types.ClearOnNavigation, nil
	default:
		return 0, fmt.Errorf("unknown occasion %q", s)
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   msg,
	})
}

func notFound(c *gin.Context, pid types.ProcessID) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error":   "process not found: " + pid.String(),
	})
}
