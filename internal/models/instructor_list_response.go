package models

type InstructorListResponse struct {
	Instructors []UserResponse `json:"instructors"`
	Page        int            `json:"page"`
	Size        int            `json:"size"`
	Total       int64          `json:"total"`
}
