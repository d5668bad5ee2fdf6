package booklysdk

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// MaxPasswordLength matches bcrypt's input limit.
const MaxPasswordLength = 72

// Validate checks the signup payload.
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 25)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 25)),
		validation.Field(&r.Username, validation.Required, validation.Length(8, 64)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 50), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, MaxPasswordLength)),
	)
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(1, MaxPasswordLength)),
	)
}

func (r EmailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 50), is.Email),
	)
}

// Validate checks both passwords are well formed. Whether they match is
// reported separately as password_mismatch.
func (r PasswordResetConfirmRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, MaxPasswordLength)),
		validation.Field(&r.ConfirmNewPassword, validation.Required, validation.Length(6, MaxPasswordLength)),
	)
}

func (r SendMailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Addresses, validation.Required, validation.By(eachEmail)),
		validation.Field(&r.Subject, validation.Length(0, 200)),
	)
}

func (r BookCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Author, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Publisher, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.PublishedDate, validation.Required, validation.Date(DateLayout)),
		validation.Field(&r.PageCount, validation.Required, validation.Min(1)),
		validation.Field(&r.Language, validation.Required, validation.Length(1, 32)),
	)
}

func (r BookUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Author, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Publisher, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.PageCount, validation.NilOrNotEmpty, validation.Min(1)),
		validation.Field(&r.Language, validation.NilOrNotEmpty, validation.Length(1, 32)),
	)
}

func (r ReviewCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&r.ReviewText, validation.Required, validation.Length(1, 2000)),
	)
}

func (r TagCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 50)),
	)
}

// Validate checks the tag list. Each element is validated as a
// TagCreateRequest.
func (r TagAddRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Tags, validation.Required),
	)
}

func eachEmail(value any) error {
	addrs, _ := value.([]string)
	for i, a := range addrs {
		if err := is.Email.Validate(a); err != nil || strings.TrimSpace(a) == "" {
			return fmt.Errorf("address %d is not a valid email", i)
		}
	}
	return nil
}

// ValidationDetails flattens an ozzo validation error into field -> message
// pairs suitable for APIError.Details. Nested keys are joined with dots
// (e.g. "tags.0.name"). Non validation errors return nil.
func ValidationDetails(err error) map[string]string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string)
	flattenErrors("", verrs, out)
	return out
}

func flattenErrors(prefix string, verrs validation.Errors, out map[string]string) {
	keys := make([]string, 0, len(verrs))
	for k := range verrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}

		var nested validation.Errors
		if errors.As(verrs[k], &nested) {
			flattenErrors(name, nested, out)
			continue
		}
		out[name] = verrs[k].Error()
	}
}
