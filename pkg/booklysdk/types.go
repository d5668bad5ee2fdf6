package booklysdk

import "time"

// DateLayout is the wire format of Book.PublishedDate.
const DateLayout = "2006-01-02"

// ============================================================================
// Generic Responses
// ============================================================================

// MessageResponse is returned by endpoints that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency probed by /readyz.
type HealthChecks struct {
	Database    string `json:"database"`
	Revocations string `json:"revocations"`
}

// ============================================================================
// Auth Types
// ============================================================================

// SignupRequest creates a new, unverified account.
type SignupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest exchanges credentials for a token pair.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginUser identifies the account a token pair was issued for.
type LoginUser struct {
	Email string `json:"email"`
	UID   string `json:"uid"`
}

// LoginResponse carries a freshly issued access/refresh token pair.
type LoginResponse struct {
	Message      string    `json:"message"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	User         LoginUser `json:"user"`
}

// RefreshResponse carries a new access token minted from a refresh token.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// EmailRequest is used by resend-verification and password-reset-request.
type EmailRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest sets a new password through a reset link.
type PasswordResetConfirmRequest struct {
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

// SendMailRequest queues a plain notification email (admin only).
type SendMailRequest struct {
	Addresses []string `json:"addresses"`
	Subject   string   `json:"subject,omitempty"`
	Body      string   `json:"body,omitempty"`
}

// ============================================================================
// User Types
// ============================================================================

// UserResponse is the public representation of an account. It never carries
// the password hash.
type UserResponse struct {
	UID        string    `json:"uid"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserProfileResponse is returned by /auth/me.
type UserProfileResponse struct {
	UserResponse
	Books   []BookResponse   `json:"books"`
	Reviews []ReviewResponse `json:"reviews"`
}

// ============================================================================
// Book Types
// ============================================================================

// BookCreateRequest creates a book owned by the caller.
type BookCreateRequest struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Publisher     string `json:"publisher"`
	PublishedDate string `json:"published_date"`
	PageCount     int    `json:"page_count"`
	Language      string `json:"language"`
}

// BookUpdateRequest patches a book. Nil fields are left unchanged.
type BookUpdateRequest struct {
	Title     *string `json:"title,omitempty"`
	Author    *string `json:"author,omitempty"`
	Publisher *string `json:"publisher,omitempty"`
	PageCount *int    `json:"page_count,omitempty"`
	Language  *string `json:"language,omitempty"`
}

// BookResponse is the public representation of a book.
type BookResponse struct {
	UID           string    `json:"uid"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Publisher     string    `json:"publisher"`
	PublishedDate string    `json:"published_date"`
	PageCount     int       `json:"page_count"`
	Language      string    `json:"language"`
	UserUID       string    `json:"user_uid,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BookDetailResponse is a book with its reviews and tags.
type BookDetailResponse struct {
	BookResponse
	Reviews []ReviewResponse `json:"reviews"`
	Tags    []TagResponse    `json:"tags"`
}

// ============================================================================
// Review Types
// ============================================================================

// ReviewCreateRequest reviews a book as the caller.
type ReviewCreateRequest struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

// ReviewResponse is the public representation of a review.
type ReviewResponse struct {
	UID        string    `json:"uid"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"review_text"`
	UserUID    string    `json:"user_uid"`
	BookUID    string    `json:"book_uid"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ============================================================================
// Tag Types
// ============================================================================

// TagCreateRequest creates or renames a tag.
type TagCreateRequest struct {
	Name string `json:"name"`
}

// TagAddRequest attaches tags to a book, creating missing ones.
type TagAddRequest struct {
	Tags []TagCreateRequest `json:"tags"`
}

// TagResponse is the public representation of a tag.
type TagResponse struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
