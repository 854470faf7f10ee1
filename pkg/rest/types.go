// This file mirrors the public API contract and would be generated from an
// openapi specification as types.gen.go.
package rest

import "time"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type EvaluationRequest struct {
	ProjectName string `json:"projectName" validate:"required,max=200"`
	Language    string `json:"language" validate:"required"`
	LinesOfCode int    `json:"linesOfCode" validate:"required,gt=0"`
	Complexity  int    `json:"complexity" validate:"required,min=1,max=5"`
	HasTests    *bool  `json:"hasTests" validate:"required"`
	UsesGit     *bool  `json:"usesGit" validate:"required"`
	AnalyzedBy  string `json:"analyzedBy" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type EvaluationResponse struct {
	ID             int64     `json:"id"`
	ProjectName    string    `json:"projectName"`
	Language       string    `json:"language"`
	LinesOfCode    int       `json:"linesOfCode"`
	Complexity     int       `json:"complexity"`
	HasTests       bool      `json:"hasTests"`
	UsesGit        bool      `json:"usesGit"`
	AnalyzedBy     string    `json:"analyzedBy"`
	Score          int       `json:"score"`
	Classification string    `json:"classification"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"createdAt"`
}

type EvaluationPage struct {
	Content       []EvaluationResponse `json:"content"`
	Page          int                  `json:"page"`
	Size          int                  `json:"size"`
	TotalElements int                  `json:"totalElements"`
	TotalPages    int                  `json:"totalPages"`
}

type StatsResponse struct {
	Total          int64 `json:"total"`
	AverageScore   int64 `json:"averageScore"`
	ExcellentCount int64 `json:"excellentCount"`
}

type DashboardResponse struct {
	Total           int64              `json:"total"`
	Excellent       int64              `json:"excellent"`
	Good            int64              `json:"good"`
	Regular         int64              `json:"regular"`
	Bad             int64              `json:"bad"`
	AverageScore    float64            `json:"averageScore"`
	ByLanguage      map[string]int64   `json:"byLanguage"`
	ScoreEvolution  map[string]float64 `json:"scoreEvolution"`
	TestsPercentage float64            `json:"testsPercentage"`
	GitPercentage   float64            `json:"gitPercentage"`
}

// Error is the error envelope.
type Error struct {
	// Code is a machine readable error code.
	Code ErrorCode `json:"code"`

	// Message is a human readable message for the UI.
	Message string `json:"message"`
}

// ErrorCode is a machine readable error code.
type ErrorCode string
