package httpapi

import (
	"net/http"
)

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	if err := a.accounts.Register(r.Context(), req.Email, req.Password); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"email":   req.Email,
		"message": "Please check your email for an OTP code to confirm your email address.",
	})
}

func (a *API) handleVerifyRegistration(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	auth, err := a.accounts.VerifyRegistration(r.Context(), req.Email, req.OTP)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"access_token": auth.AccessToken,
		"message":      "Your email address has been confirmed. Account activated successfully.",
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	auth, err := a.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"access_token": auth.AccessToken,
		"token_type":   "bearer",
		"is_superuser": auth.IsSuperuser,
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if err := a.accounts.Logout(r.Context(), user.ID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "Successfully logged out"})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	respondJSON(w, http.StatusOK, map[string]any{
		"id":                user.ID,
		"email":             user.Email,
		"first_name":        user.FirstName,
		"last_name":         user.LastName,
		"is_superuser":      user.IsSuperuser,
		"is_verified_email": user.IsVerifiedEmail,
		"date_joined":       user.DateJoined,
		"last_login":        user.LastLogin,
	})
}

func (a *API) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email   string `json:"email"`
		Purpose string `json:"purpose"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	if err := a.accounts.ResendOTP(r.Context(), req.Email, req.Purpose); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "Verification email sent. Please check your inbox."})
}

func (a *API) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		OTP         string `json:"otp"`
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	if err := a.accounts.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "Password updated successfully."})
}

func (a *API) handleChangeEmailRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewEmail string `json:"new_email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	user := currentUser(r)
	if err := a.accounts.ChangeEmailRequest(r.Context(), user.ID, req.NewEmail); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "Email change verification sent. Please check your inbox."})
}

func (a *API) handleVerifyChangeEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OTP string `json:"otp"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	user := currentUser(r)
	if err := a.accounts.VerifyChangeEmail(r.Context(), user.ID, req.OTP); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "Email address updated successfully."})
}
