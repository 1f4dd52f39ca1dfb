//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRegisterRequest_Validate(t *testing.T) {
	valid := func() RegisterRequest {
		return RegisterRequest{Name: "Asha Rao", Email: "asha@example.com", Password: "Secur3Pass!", Role: "student"}
	}

	tests := []struct {
		name    string
		mutate  func(r *RegisterRequest)
		wantErr string
	}{
		{"valid", func(*RegisterRequest) {}, ""},
		{"valid company", func(r *RegisterRequest) { r.Role = "company" }, ""},
		{"missing name", func(r *RegisterRequest) { r.Name = "" }, "required"},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"short password", func(r *RegisterRequest) { r.Password = "short" }, "min"},
		{"long password", func(r *RegisterRequest) { r.Password = strings.Repeat("a", 65) }, "max"},
		{"admin cannot self-register", func(r *RegisterRequest) { r.Role = "admin" }, "oneof"},
		{"missing role", func(r *RegisterRequest) { r.Role = "" }, "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.wantErr, verrs[0].Tag())
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	assert.NoError(t, (&LoginRequest{Email: "a@b.co", Password: "x"}).Validate())
	assert.Error(t, (&LoginRequest{Email: "a@b.co"}).Validate())
	assert.Error(t, (&LoginRequest{Email: "nope", Password: "x"}).Validate())
}

func TestUpdateProfileRequest_Validate(t *testing.T) {
	skills := []string{"go", "sql"}
	emptySkill := []string{"go", ""}

	tests := []struct {
		name    string
		req     UpdateProfileRequest
		wantErr bool
	}{
		{"empty update", UpdateProfileRequest{}, false},
		{"name and skills", UpdateProfileRequest{Name: strPtr("New Name"), Skills: &skills}, false},
		{"valid dob", UpdateProfileRequest{DOB: strPtr("2001-04-09")}, false},
		{"bad dob", UpdateProfileRequest{DOB: strPtr("09/04/2001")}, true},
		{"bad image url", UpdateProfileRequest{ProfileImage: strPtr("not a url")}, true},
		{"blank skill", UpdateProfileRequest{Skills: &emptySkill}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResetPasswordRequest_Validate(t *testing.T) {
	token := strings.Repeat("ab", 32)

	assert.NoError(t, (&ResetPasswordRequest{Token: token, NewPassword: "Secur3Pass!"}).Validate())
	assert.Error(t, (&ResetPasswordRequest{Token: "abc", NewPassword: "Secur3Pass!"}).Validate(), "short token")
	assert.Error(t, (&ResetPasswordRequest{Token: strings.Repeat("zz", 32), NewPassword: "Secur3Pass!"}).Validate(), "non-hex token")
	assert.Error(t, (&ResetPasswordRequest{Token: token, NewPassword: "short"}).Validate())
	assert.NoError(t, (&ResetPasswordRequest{Token: token, NewPassword: "Secur3Pass!", ConfirmPassword: "Secur3Pass!"}).Validate())
	assert.Error(t, (&ResetPasswordRequest{Token: token, NewPassword: "Secur3Pass!", ConfirmPassword: "other"}).Validate())
	assert.Error(t, (&ForgotPasswordRequest{Email: ""}).Validate())
	assert.NoError(t, (&ForgotPasswordRequest{Email: "user@example.com"}).Validate())
}

func TestJobRequests_Validate(t *testing.T) {
	create := CreateJobRequest{Title: "Backend Intern", Type: "Internship", Domain: "Software", Location: "Pune"}
	assert.NoError(t, create.Validate())

	badType := create
	badType.Type = "Contract"
	assert.Error(t, badType.Validate())

	missing := create
	missing.Location = ""
	assert.Error(t, missing.Validate())

	assert.NoError(t, (&UpdateJobRequest{Status: strPtr("Closed")}).Validate())
	assert.Error(t, (&UpdateJobRequest{Status: strPtr("Archived")}).Validate())
	assert.NoError(t, (&UpdateJobRequest{}).Validate())

	assert.Error(t, (&ApplyJobRequest{}).Validate())
	assert.NoError(t, (&ApplyJobRequest{Resume: "https://example.com/cv.pdf"}).Validate())
}

func TestQuestionRequests_Validate(t *testing.T) {
	assert.NoError(t, (&CheckAnswerRequest{QuestionID: uuid.New(), Answer: "B"}).Validate())
	assert.Error(t, (&CheckAnswerRequest{Answer: "B"}).Validate(), "nil question id")
	assert.Error(t, (&CheckAnswerRequest{QuestionID: uuid.New()}).Validate())

	assert.NoError(t, (&GenerateQuestionRequest{Topic: "percentages", Difficulty: "easy"}).Validate())
	assert.Error(t, (&GenerateQuestionRequest{Topic: "percentages", Difficulty: "brutal"}).Validate())
	assert.Error(t, (&GenerateQuestionRequest{Difficulty: "easy"}).Validate())
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name               string
		page, limit, total int
		want               Pagination
	}{
		{"first of three", 1, 10, 25, Pagination{CurrentPage: 1, TotalPages: 3, TotalCount: 25, Limit: 10, HasNextPage: true}},
		{"last page", 3, 10, 25, Pagination{CurrentPage: 3, TotalPages: 3, TotalCount: 25, Limit: 10, HasPrevPage: true}},
		{"exact fit", 1, 5, 5, Pagination{CurrentPage: 1, TotalPages: 1, TotalCount: 5, Limit: 5}},
		{"empty", 1, 20, 0, Pagination{CurrentPage: 1, TotalPages: 0, TotalCount: 0, Limit: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPagination(tt.page, tt.limit, tt.total))
		})
	}
}
