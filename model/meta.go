package model

import "time"

const (
	CommandCoverage = "coverage"
	CommandLibrary  = "library"
	CommandValidate = "validate"
	CommandHeaders  = "headers"
	CommandExposure = "exposure"
)

type Meta struct {
	Tool        string    `json:"tool"`
	Version     string    `json:"version"`
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Command     string    `json:"command"` // coverage | library | validate | headers | exposure
}
