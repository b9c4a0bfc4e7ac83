package roboflow

import "errors"

// Construction errors.
var (
	ErrNoAPIKey  = errors.New("api key not set")
	ErrNoProject = errors.New("project not set")
)
