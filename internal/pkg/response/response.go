// Package response writes the JSON envelope every endpoint answers with:
// {"success": bool, "data": ..., "error": "message"}.
package response

import "github.com/gin-gonic/gin"

type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func Success(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// Error writes a failure envelope. code is a stable machine-readable tag,
// message is shown to the user.
func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, Envelope{Success: false, Error: message, Code: code})
}

// Abort is Error for middleware: it also stops the handler chain.
func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Error: message, Code: code})
}
