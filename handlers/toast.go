package handlers

import (
	"encoding/json"

	"github.com/pocketbase/pocketbase/core"

	"marcenaria/config"
)

// toastTrigger is the HX-Trigger payload the page listens for.
type toastTrigger struct {
	ShowToast toast `json:"showToast"`
}

type toast struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ErrorToast answers an HTMX request with an error toast. HX-Reswap: none
// keeps the message out of the DOM while HX-Trigger still fires the toast.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	data, err := json.Marshal(toastTrigger{ShowToast: toast{Message: message, Type: "error"}})
	if err != nil {
		config.Logger().WithField("module", "toast").Warnf("marshal HX-Trigger: %v", err)
	} else {
		e.Response.Header().Set("HX-Trigger", string(data))
	}
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}
