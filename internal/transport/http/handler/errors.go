package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	errInternalServer   = "Internal Server Error"
	errEmailRequired    = "Email is required"
	errEmailOTPRequired = "Email and OTP are required"
	errFieldsRequired   = "All fields are required"
	errOTPSendFailed    = "Failed to send OTP"
	errOTPInvalid       = "Invalid or expired OTP"
	errNotVerified      = "Email not verified. Please verify OTP first."
	errUserExists       = "User already exists"
	errUserNotFound     = "User not found"
	errWrongPassword    = "Wrong Password"
	errNoteNotFound     = "Note not found"
	errNoNotes          = "No notes found for this user"
	errNotOwnerView     = "You are not authorized to view this note"
	errNotOwnerUpdate   = "You are not authorized to update this note"
	errNotOwnerDelete   = "You are not authorized to delete this note"
)

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// failInternal surfaces the underlying message the way the API always
// has; callers log the error with context before calling this.
func failInternal(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": errInternalServer,
		"error":   err.Error(),
	})
}
