package models

import "time"

// MemberRole is the role of a user inside a class
type MemberRole string

const (
	MemberRoleTeacher MemberRole = "teacher"
	MemberRoleStudent MemberRole = "student"
)

// Class (Turma) is a teacher-owned group with joinable students
type Class struct {
	ID          int       `json:"id"`
	OwnerID     int       `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	InviteCode  string    `json:"inviteCode,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ClassListItem is a class as seen by one of its members
type ClassListItem struct {
	Class
	Role        MemberRole `json:"role"`
	MemberCount int        `json:"memberCount"`
}

// ClassMember is a member of a class
type ClassMember struct {
	UserID   int        `json:"userId"`
	Username string     `json:"username"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joinedAt"`
}

// CreateClassRequest represents a create class request
type CreateClassRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// JoinClassRequest represents a join-by-invite-code request
type JoinClassRequest struct {
	InviteCode string `json:"inviteCode"`
}
