package api

import "time"

// User is the account returned by the auth endpoints.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Token is the result of signup and login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Document is an uploaded PDF. FileSize is in megabytes.
type Document struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	Filename         string     `json:"filename"`
	OriginalFilename string     `json:"original_filename"`
	FileSize         *float64   `json:"file_size,omitempty"`
	PageCount        *int       `json:"page_count,omitempty"`
	UploadedAt       time.Time  `json:"uploaded_at"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty"`
}

// DisplayName prefers the name the user uploaded.
func (d Document) DisplayName() string {
	if d.OriginalFilename != "" {
		return d.OriginalFilename
	}
	return d.Filename
}

type DocumentList struct {
	Total     int        `json:"total"`
	Documents []Document `json:"documents"`
}

type UploadResult struct {
	Message  string   `json:"message"`
	Document Document `json:"document"`
}

// ChatInfo reports whether a document is ready to be queried.
type ChatInfo struct {
	DocumentID   int64     `json:"document_id"`
	Filename     string    `json:"filename"`
	PageCount    *int      `json:"page_count,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
	IsProcessed  bool      `json:"is_processed"`
	ReadyForChat bool      `json:"ready_for_chat"`
}

type ChatRequest struct {
	DocumentID int64  `json:"document_id"`
	Question   string `json:"question"`
}

type ChatResponse struct {
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	DocumentID int64    `json:"document_id"`
	Sources    []string `json:"sources,omitempty"`
}

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the local chat transcript for a document.
type Message struct {
	ID         int64     `json:"id"`
	DocumentID int64     `json:"document_id"`
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	Sources    []string  `json:"sources,omitempty"`
	Error      bool      `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// UploadRecord remembers which document a file's content was uploaded as.
type UploadRecord struct {
	Digest     string    `json:"digest"`
	DocumentID int64     `json:"document_id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
}
