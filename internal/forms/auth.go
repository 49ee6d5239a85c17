package forms

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

// UsernameChecker reports whether a username is already registered.
type UsernameChecker interface {
	UsernameTaken(ctx context.Context, username string) (bool, error)
}

type SignupForm struct {
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Username  string `form:"username" validate:"required,max=150,username"`
	Email     string `form:"email" validate:"omitempty,email,max=254"`
	Password1 string `form:"password1" validate:"required"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

func BindSignup(c *gin.Context) *SignupForm {
	f := &SignupForm{}
	_ = c.ShouldBind(f)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	return f
}

func (f *SignupForm) Validate(ctx context.Context, users UsernameChecker) (Errors, error) {
	errs := check(f)
	if !errs.Has("username") {
		taken, err := users.UsernameTaken(ctx, f.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("username", msgUsernameTaken)
		}
	}
	if !errs.Has("password1") && !errs.Has("password2") {
		for _, p := range PasswordProblems(f.Password2, f.Username) {
			errs.Add("password2", p)
		}
	}
	return errs, nil
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

func BindLogin(c *gin.Context) *LoginForm {
	f := &LoginForm{}
	_ = c.ShouldBind(f)
	f.Username = strings.TrimSpace(f.Username)
	return f
}

func (f *LoginForm) Validate() Errors {
	return check(f)
}

// InvalidLogin is shown when the username or password does not match.
const InvalidLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."

type PasswordChangeForm struct {
	OldPassword  string `form:"old_password" validate:"required"`
	NewPassword1 string `form:"new_password1" validate:"required"`
	NewPassword2 string `form:"new_password2" validate:"required,eqfield=NewPassword1"`
}

// WrongOldPassword is attached to old_password when it does not verify.
const WrongOldPassword = "Your old password was entered incorrectly. Please enter it again."

func BindPasswordChange(c *gin.Context) *PasswordChangeForm {
	f := &PasswordChangeForm{}
	_ = c.ShouldBind(f)
	return f
}

func (f *PasswordChangeForm) Validate(username string) Errors {
	errs := check(f)
	if !errs.Has("new_password1") && !errs.Has("new_password2") {
		for _, p := range PasswordProblems(f.NewPassword2, username) {
			errs.Add("new_password2", p)
		}
	}
	return errs
}

type PasswordResetForm struct {
	Email string `form:"email" validate:"required,email,max=254"`
}

func BindPasswordReset(c *gin.Context) *PasswordResetForm {
	f := &PasswordResetForm{}
	_ = c.ShouldBind(f)
	f.Email = strings.TrimSpace(f.Email)
	return f
}

func (f *PasswordResetForm) Validate() Errors {
	return check(f)
}

type SetPasswordForm struct {
	NewPassword1 string `form:"new_password1" validate:"required"`
	NewPassword2 string `form:"new_password2" validate:"required,eqfield=NewPassword1"`
}

func BindSetPassword(c *gin.Context) *SetPasswordForm {
	f := &SetPasswordForm{}
	_ = c.ShouldBind(f)
	return f
}

func (f *SetPasswordForm) Validate(username string) Errors {
	errs := check(f)
	if !errs.Has("new_password1") && !errs.Has("new_password2") {
		for _, p := range PasswordProblems(f.NewPassword2, username) {
			errs.Add("new_password2", p)
		}
	}
	return errs
}
