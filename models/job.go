package models

import "time"

type JobStatus string

const (
	JobRunning   JobStatus = "Running"
	JobCompleted JobStatus = "Completed"
	JobFailed    JobStatus = "Failed"
)

type Job struct {
	ID               string     `json:"id"`
	Address          string     `json:"address"`
	Chain            Chain      `json:"chain"`
	Status           JobStatus  `json:"status"`
	Progress         int        `json:"progress"`
	WalletsProcessed int        `json:"wallets_processed"`
	Result           *TreeNode  `json:"result,omitempty"`
	Error            string     `json:"error,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
}

func (j Job) Terminal() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}

type Progress struct {
	Status           JobStatus `json:"status"`
	Percent          int       `json:"progress"`
	WalletsProcessed int       `json:"wallets_processed"`
}
