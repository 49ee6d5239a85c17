package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"yatube/internal/forms"
	"yatube/internal/logging"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/services"
	"yatube/internal/store"
	"yatube/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Mailer delivers password-reset links.
type Mailer interface {
	SendPasswordReset(to, username, link string) error
}

type AuthHandler struct {
	store   *store.Store
	mailer  Mailer
	tokens  *services.ResetTokens
	siteURL string
}

func NewAuthHandler(st *store.Store, mailer Mailer, tokens *services.ResetTokens, siteURL string) *AuthHandler {
	return &AuthHandler{
		store:   st,
		mailer:  mailer,
		tokens:  tokens,
		siteURL: strings.TrimSuffix(siteURL, "/"),
	}
}

func (h *AuthHandler) ShowSignup(c *gin.Context) {
	Render(c, http.StatusOK, "users/signup.html", gin.H{"Form": &forms.SignupForm{}, "Errors": forms.Errors{}})
}

// Signup 注册新用户，成功后回到首页
func (h *AuthHandler) Signup(c *gin.Context) {
	ctx := c.Request.Context()
	form := forms.BindSignup(c)
	errs, err := form.Validate(ctx, h.store)
	if err != nil {
		ServerError(c, err, "validate signup")
		return
	}
	if errs.Any() {
		Render(c, http.StatusBadRequest, "users/signup.html", gin.H{"Form": form, "Errors": errs})
		return
	}

	hash, err := utils.HashPassword(form.Password1)
	if err != nil {
		ServerError(c, err, "hash password")
		return
	}
	user := &models.User{
		Username:  form.Username,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  hash,
	}
	if err := h.store.CreateUser(ctx, user); err != nil {
		ServerError(c, err, "create user")
		return
	}

	logging.Log.WithField("user_id", user.ID).Info("user signed up")
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "users/login.html", gin.H{
		"Form":   &forms.LoginForm{},
		"Errors": forms.Errors{},
		"Next":   c.Query("next"),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	form := forms.BindLogin(c)
	errs := form.Validate()

	var user *models.User
	if !errs.Any() {
		var err error
		user, err = h.store.UserByUsername(c.Request.Context(), form.Username)
		switch {
		case errors.Is(err, store.ErrNotFound):
			errs.Add(forms.NonFieldErrors, forms.InvalidLogin)
		case err != nil:
			ServerError(c, err, "load user for login")
			return
		case !utils.CheckPasswordHash(form.Password, user.Password):
			errs.Add(forms.NonFieldErrors, forms.InvalidLogin)
		}
	}
	if errs.Any() {
		Render(c, http.StatusBadRequest, "users/login.html", gin.H{
			"Form":   form,
			"Errors": errs,
			"Next":   form.Next,
		})
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(middleware.SessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		ServerError(c, err, "save session")
		return
	}

	next := "/"
	if isSafeRedirect(form.Next) {
		next = form.Next
	}
	c.Redirect(http.StatusFound, next)
}

// isSafeRedirect accepts only paths on this site.
func isSafeRedirect(next string) bool {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return false
	}
	u, err := url.Parse(next)
	return err == nil && u.Scheme == "" && u.Host == ""
}

// Logout works for GET and POST and always shows the logged-out page.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		logging.Log.WithError(err).Warn("clear session")
	}
	// the page must not greet the user who just left
	c.Set(middleware.CheckUserKey, nil)
	Render(c, http.StatusOK, "users/logged_out.html", nil)
}

func (h *AuthHandler) ShowPasswordChange(c *gin.Context) {
	Render(c, http.StatusOK, "users/password_change_form.html", gin.H{"Errors": forms.Errors{}})
}

// PasswordChange 修改密码，当前会话保持登录
func (h *AuthHandler) PasswordChange(c *gin.Context) {
	user := middleware.CurrentUser(c)
	form := forms.BindPasswordChange(c)

	errs := forms.Errors{}
	if !utils.CheckPasswordHash(form.OldPassword, user.Password) {
		errs.Add("old_password", forms.WrongOldPassword)
	} else {
		errs = form.Validate(user.Username)
	}
	if errs.Any() {
		Render(c, http.StatusBadRequest, "users/password_change_form.html", gin.H{"Errors": errs})
		return
	}

	if err := h.setPassword(c, user, form.NewPassword1); err != nil {
		ServerError(c, err, "change password")
		return
	}
	c.Redirect(http.StatusFound, "/auth/password_change/done/")
}

func (h *AuthHandler) PasswordChangeDone(c *gin.Context) {
	Render(c, http.StatusOK, "users/password_change_done.html", nil)
}

func (h *AuthHandler) setPassword(c *gin.Context, user *models.User, password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	if err := h.store.SetPassword(c.Request.Context(), user.ID, hash); err != nil {
		return err
	}
	user.Password = hash
	return nil
}

func (h *AuthHandler) ShowPasswordReset(c *gin.Context) {
	Render(c, http.StatusOK, "users/password_reset_form.html", gin.H{"Form": &forms.PasswordResetForm{}, "Errors": forms.Errors{}})
}

// PasswordReset mails a link to every account registered with the address.
// The response is the same whether or not such an account exists.
func (h *AuthHandler) PasswordReset(c *gin.Context) {
	form := forms.BindPasswordReset(c)
	if errs := form.Validate(); errs.Any() {
		Render(c, http.StatusBadRequest, "users/password_reset_form.html", gin.H{"Form": form, "Errors": errs})
		return
	}

	users, err := h.store.UsersByEmail(c.Request.Context(), form.Email)
	if err != nil {
		ServerError(c, err, "find users by email")
		return
	}
	for i := range users {
		u := &users[i]
		token, err := h.tokens.Make(u)
		if err != nil {
			ServerError(c, err, "make reset token")
			return
		}
		link := h.siteURL + "/auth/reset/" + services.EncodeUID(u.ID) + "/" + token + "/"
		if err := h.mailer.SendPasswordReset(u.Email, u.Username, link); err != nil {
			logging.Log.WithError(err).WithField("user_id", u.ID).Error("send password reset")
		}
	}
	c.Redirect(http.StatusFound, "/auth/password_reset/done/")
}

func (h *AuthHandler) PasswordResetDone(c *gin.Context) {
	Render(c, http.StatusOK, "users/password_reset_done.html", nil)
}

// resetUser resolves the account a reset link points at. nil means the link is dead.
func (h *AuthHandler) resetUser(c *gin.Context) (*models.User, error) {
	id, err := services.DecodeUID(c.Param("uidb64"))
	if err != nil {
		return nil, nil
	}
	user, err := h.store.UserByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if h.tokens.Check(user, c.Param("token")) != nil {
		return nil, nil
	}
	return user, nil
}

func (h *AuthHandler) ShowPasswordResetConfirm(c *gin.Context) {
	user, err := h.resetUser(c)
	if err != nil {
		ServerError(c, err, "load reset user")
		return
	}
	Render(c, http.StatusOK, "users/password_reset_confirm.html", gin.H{
		"ValidLink": user != nil,
		"Errors":    forms.Errors{},
	})
}

func (h *AuthHandler) PasswordResetConfirm(c *gin.Context) {
	user, err := h.resetUser(c)
	if err != nil {
		ServerError(c, err, "load reset user")
		return
	}
	if user == nil {
		Render(c, http.StatusOK, "users/password_reset_confirm.html", gin.H{"ValidLink": false})
		return
	}

	form := forms.BindSetPassword(c)
	if errs := form.Validate(user.Username); errs.Any() {
		Render(c, http.StatusBadRequest, "users/password_reset_confirm.html", gin.H{
			"ValidLink": true,
			"Errors":    errs,
		})
		return
	}

	if err := h.setPassword(c, user, form.NewPassword1); err != nil {
		ServerError(c, err, "reset password")
		return
	}
	logging.Log.WithField("user_id", user.ID).Info("password reset")
	c.Redirect(http.StatusFound, "/auth/reset/done/")
}

func (h *AuthHandler) PasswordResetComplete(c *gin.Context) {
	Render(c, http.StatusOK, "users/password_reset_complete.html", nil)
}
